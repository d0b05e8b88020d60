package service

import (
	"testing"

	"learnify_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newAchievementService(db)
	user := createTestUser(t, db, "alice")

	badge, newlyAwarded, err := svc.Award(db, user.ID, model.BadgeFirstSteps)
	require.NoError(t, err)
	require.NotNil(t, badge)
	assert.True(t, newlyAwarded)
	assert.Equal(t, model.BadgeFirstSteps, badge.BadgeID)

	badge, newlyAwarded, err = svc.Award(db, user.ID, model.BadgeFirstSteps)
	require.NoError(t, err)
	require.NotNil(t, badge)
	assert.False(t, newlyAwarded)

	var count int64
	require.NoError(t, db.Model(&model.UserAchievement{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAwardUnknownBadgeIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := newAchievementService(db)
	user := createTestUser(t, db, "bob")

	badge, newlyAwarded, err := svc.Award(db, user.ID, "badge-does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, badge)
	assert.False(t, newlyAwarded)

	var count int64
	require.NoError(t, db.Model(&model.UserAchievement{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGetUserAchievements(t *testing.T) {
	db := newTestDB(t)
	svc := newAchievementService(db)
	user := createTestUser(t, db, "carol")

	_, _, err := svc.Award(db, user.ID, model.BadgeFirstSteps)
	require.NoError(t, err)
	_, _, err = svc.Award(db, user.ID, model.BadgePerfectScore)
	require.NoError(t, err)

	badges, err := svc.GetUserAchievements(user.ID)
	require.NoError(t, err)
	require.Len(t, badges, 2)

	ids := []string{badges[0].BadgeID, badges[1].BadgeID}
	assert.Contains(t, ids, model.BadgeFirstSteps)
	assert.Contains(t, ids, model.BadgePerfectScore)
}

func TestSeededCatalogHasSixBadges(t *testing.T) {
	db := newTestDB(t)
	svc := newAchievementService(db)

	catalog, err := svc.GetCatalog()
	require.NoError(t, err)
	assert.Len(t, catalog, 6)
}
