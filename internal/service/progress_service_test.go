package service

import (
	"testing"

	"learnify_backend/internal/model"
	"learnify_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionIsFractionOfModules(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, "Go Basics", 4)
	enrollTestUser(t, db, user.ID, course.ID)

	for i := 0; i < 3; i++ {
		result, err := svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[i].ID, 1.0, nil)
		require.NoError(t, err)
		assert.False(t, result.CourseCompleted)
	}

	var enrollment model.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.InDelta(t, 0.75, enrollment.Completion, 1e-9)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestCourseCompletionStampsOnceAndAwardsGraduate(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "bob")
	course := createTestCourse(t, db, "SQL Basics", 2)
	enrollTestUser(t, db, user.ID, course.ID)

	_, err := svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[0].ID, 1.0, nil)
	require.NoError(t, err)

	result, err := svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[1].ID, 1.0, nil)
	require.NoError(t, err)
	assert.True(t, result.CourseCompleted)
	assert.InDelta(t, 1.0, result.Completion, 1e-9)

	badgeIDs := make([]string, 0, len(result.AwardedBadges))
	for _, b := range result.AwardedBadges {
		badgeIDs = append(badgeIDs, b.BadgeID)
	}
	assert.Contains(t, badgeIDs, model.BadgeCourseGraduate)

	var enrollment model.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	require.NotNil(t, enrollment.CompletedAt)
	completedAt := *enrollment.CompletedAt

	// 回退一个模块：完成度下降，但完成时间戳保持不变
	result, err = svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[0].ID, 0, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.Completion, 1e-9)
	assert.False(t, result.CourseCompleted)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	require.NotNil(t, enrollment.CompletedAt)
	assert.Equal(t, completedAt.Unix(), enrollment.CompletedAt.Unix())
}

func TestProgressValuesAreClamped(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "carol")
	course := createTestCourse(t, db, "HTTP", 2)
	enrollTestUser(t, db, user.ID, course.ID)

	_, err := svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[0].ID, 1.5, intPtr(150))
	require.NoError(t, err)

	var progress model.Progress
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", user.ID, course.Modules[0].ID).First(&progress).Error)
	assert.Equal(t, 1.0, progress.Completion)
	require.NotNil(t, progress.QuizScore)
	assert.Equal(t, 100, *progress.QuizScore)

	_, err = svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[1].ID, -0.3, intPtr(-5))
	require.NoError(t, err)

	progress = model.Progress{}
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", user.ID, course.Modules[1].ID).First(&progress).Error)
	assert.Equal(t, 0.0, progress.Completion)
	require.NotNil(t, progress.QuizScore)
	assert.Equal(t, 0, *progress.QuizScore)
}

func TestResubmitKeepsQuizScoreWhenOmitted(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "dave")
	course := createTestCourse(t, db, "Docker", 2)
	enrollTestUser(t, db, user.ID, course.ID)

	moduleID := course.Modules[0].ID
	_, err := svc.SubmitModuleProgress(user.ID, course.ID, moduleID, 0.5, intPtr(85))
	require.NoError(t, err)

	_, err = svc.SubmitModuleProgress(user.ID, course.ID, moduleID, 1.0, nil)
	require.NoError(t, err)

	var progress model.Progress
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", user.ID, moduleID).First(&progress).Error)
	assert.Equal(t, 1.0, progress.Completion)
	require.NotNil(t, progress.QuizScore)
	assert.Equal(t, 85, *progress.QuizScore)
}

func TestZeroModuleCourseStaysAtZero(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "erin")
	course := createTestCourse(t, db, "Empty", 0)
	enrollment := enrollTestUser(t, db, user.ID, course.ID)

	completion, justCompleted, err := svc.RecomputeCompletion(db, enrollment, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, completion)
	assert.False(t, justCompleted)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestPerfectQuizScoreAwardsBadge(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "frank")
	course := createTestCourse(t, db, "Kubernetes", 3)
	enrollTestUser(t, db, user.ID, course.ID)

	result, err := svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[0].ID, 1.0, intPtr(100))
	require.NoError(t, err)

	badgeIDs := make([]string, 0, len(result.AwardedBadges))
	for _, b := range result.AwardedBadges {
		badgeIDs = append(badgeIDs, b.BadgeID)
	}
	assert.Contains(t, badgeIDs, model.BadgePerfectScore)
}

func TestSubmitProgressRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "grace")
	course := createTestCourse(t, db, "Rust", 2)

	_, err := svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[0].ID, 1.0, nil)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestSubmitProgressRejectsForeignModule(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "heidi")
	course := createTestCourse(t, db, "Python", 1)
	other := createTestCourse(t, db, "Java", 1)
	enrollTestUser(t, db, user.ID, course.ID)

	_, err := svc.SubmitModuleProgress(user.ID, course.ID, other.Modules[0].ID, 1.0, nil)
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}

func TestCompletionIssuesCertificateWhenScoresQualify(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "ivan")
	course := createTestCourse(t, db, "Networking", 2)
	enrollTestUser(t, db, user.ID, course.ID)

	_, err := svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[0].ID, 1.0, intPtr(80))
	require.NoError(t, err)

	result, err := svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[1].ID, 1.0, intPtr(90))
	require.NoError(t, err)
	assert.True(t, result.CourseCompleted)
	require.NotNil(t, result.Certificate)
	assert.InDelta(t, 85.0, result.Certificate.Score, 1e-9)
	assert.NotEmpty(t, result.Certificate.VerificationCode)
}

func TestCompletionWithLowAverageSkipsCertificate(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "judy")
	course := createTestCourse(t, db, "Algorithms", 2)
	enrollTestUser(t, db, user.ID, course.ID)

	_, err := svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[0].ID, 1.0, intPtr(60))
	require.NoError(t, err)

	result, err := svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[1].ID, 1.0, intPtr(70))
	require.NoError(t, err)
	assert.True(t, result.CourseCompleted)
	assert.Nil(t, result.Certificate)

	var count int64
	require.NoError(t, db.Model(&model.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestFifthCompletedCourseAwardsEnthusiast(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "kevin")

	var lastResult *ProgressResult
	for i := 0; i < 5; i++ {
		course := createTestCourse(t, db, "Course", 1)
		enrollTestUser(t, db, user.ID, course.ID)
		result, err := svc.SubmitModuleProgress(user.ID, course.ID, course.Modules[0].ID, 1.0, nil)
		require.NoError(t, err)
		lastResult = result
	}

	badgeIDs := make([]string, 0, len(lastResult.AwardedBadges))
	for _, b := range lastResult.AwardedBadges {
		badgeIDs = append(badgeIDs, b.BadgeID)
	}
	assert.Contains(t, badgeIDs, model.BadgeLearningEnthusiast)
}
