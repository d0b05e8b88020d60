package service

import (
	"context"
	"testing"
	"time"

	"learnify_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func completeEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()
	now := time.Now()
	require.NoError(t, db.Create(&model.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentDate: now,
		Completion:     1.0,
		CompletedAt:    &now,
	}).Error)
}

func TestStandingsRankByCompletedCourses(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	c1 := createTestCourse(t, db, "Go", 1)
	c2 := createTestCourse(t, db, "SQL", 1)

	completeEnrollment(t, db, alice.ID, c1.ID)
	completeEnrollment(t, db, alice.ID, c2.ID)
	completeEnrollment(t, db, bob.ID, c1.ID)
	require.NoError(t, db.Create(&model.Enrollment{
		UserID:         bob.ID,
		CourseID:       c2.ID,
		EnrollmentDate: time.Now(),
		Completion:     0.5,
	}).Error)

	entries, err := svc.Standings(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 2, entries[0].CompletedCourses)
	assert.Equal(t, "bob", entries[1].Username)
	assert.Equal(t, 1, entries[1].CompletedCourses)
}

func TestStandingsHonorsLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db, nil)
	course := createTestCourse(t, db, "Go", 1)

	for _, name := range []string{"u1", "u2", "u3"} {
		user := createTestUser(t, db, name)
		completeEnrollment(t, db, user.ID, course.ID)
	}

	entries, err := svc.Standings(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
