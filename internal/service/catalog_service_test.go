package service

import (
	"testing"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCatalogService(db *gorm.DB) *CatalogService {
	return NewCatalogService(
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		newAchievementService(db),
		db,
	)
}

func TestFirstEnrollmentAwardsFirstSteps(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, "Go Basics", 2)

	result, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Enrollment)
	assert.Zero(t, result.Enrollment.Completion)
	require.NotNil(t, result.AwardedBadge)
	assert.Equal(t, model.BadgeFirstSteps, result.AwardedBadge.BadgeID)

	// 第二门课不会重复授予
	second := createTestCourse(t, db, "SQL", 1)
	result, err = svc.Enroll(user.ID, second.ID)
	require.NoError(t, err)
	assert.Nil(t, result.AwardedBadge)
}

func TestDuplicateEnrollmentFails(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)
	user := createTestUser(t, db, "bob")
	course := createTestCourse(t, db, "HTTP", 1)

	_, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	var count int64
	require.NoError(t, db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnrollUnknownCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)
	user := createTestUser(t, db, "carol")

	_, err := svc.Enroll(user.ID, 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestListCoursesMarksEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)
	user := createTestUser(t, db, "dave")
	enrolled := createTestCourse(t, db, "Docker", 1)
	createTestCourse(t, db, "Rust", 1)

	_, err := svc.Enroll(user.ID, enrolled.ID)
	require.NoError(t, err)

	courses, err := svc.ListCourses(user.ID)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	byTitle := map[string]CourseSummary{}
	for _, c := range courses {
		byTitle[c.Title] = c
	}
	assert.True(t, byTitle["Docker"].Enrolled)
	assert.False(t, byTitle["Rust"].Enrolled)
}

func TestGetCourseOrdersModules(t *testing.T) {
	db := newTestDB(t)
	svc := newCatalogService(db)
	course := createTestCourse(t, db, "Networking", 3)

	loaded, err := svc.GetCourse(course.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Modules, 3)
	for i := 1; i < len(loaded.Modules); i++ {
		assert.LessOrEqual(t, loaded.Modules[i-1].Order, loaded.Modules[i].Order)
	}

	_, err = svc.GetCourse(8888)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
