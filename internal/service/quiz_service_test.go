package service

import (
	"testing"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuizService(db *gorm.DB) *QuizService {
	return NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewEnrollmentRepository(db),
		newCertificateService(db),
		db,
	)
}

func createQuizQuestions(t *testing.T, db *gorm.DB, courseID uint, correctOptions []string) []model.QuizQuestion {
	t.Helper()
	questions := make([]model.QuizQuestion, len(correctOptions))
	for i, correct := range correctOptions {
		q := model.QuizQuestion{
			CourseID: courseID,
			Question: "question",
			Options: []model.QuizOption{
				{Key: "a", Text: "option a"},
				{Key: "b", Text: "option b"},
				{Key: "c", Text: "option c"},
			},
			CorrectOption: correct,
		}
		require.NoError(t, db.Create(&q).Error)
		questions[i] = q
	}
	return questions
}

func TestSubmitQuizGradesAsPercentage(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, "Go Basics", 1)
	enrollTestUser(t, db, user.ID, course.ID)
	questions := createQuizQuestions(t, db, course.ID, []string{"a", "b", "c"})

	result, err := svc.SubmitQuiz(user.ID, course.ID, map[uint]string{
		questions[0].ID: "a",
		questions[1].ID: "b",
		questions[2].ID: "a",
	})
	require.NoError(t, err)
	assert.InDelta(t, 66.67, result.Score, 1e-9)
	assert.False(t, result.Passed)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 2, result.CorrectAnswers)

	var attempts []model.QuizAttempt
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&attempts).Error)
	require.Len(t, attempts, 1)
	assert.InDelta(t, 66.67, attempts[0].Score, 1e-9)
	assert.False(t, attempts[0].Passed)
}

func TestSubmitQuizPassAtThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	user := createTestUser(t, db, "bob")
	course := createTestCourse(t, db, "SQL", 1)
	enrollTestUser(t, db, user.ID, course.ID)
	questions := createQuizQuestions(t, db, course.ID, []string{"a", "a", "a", "a", "a", "a", "a", "a", "a", "a"})

	answers := map[uint]string{}
	for i, q := range questions {
		if i < 7 {
			answers[q.ID] = "a"
		} else {
			answers[q.ID] = "b"
		}
	}

	result, err := svc.SubmitQuiz(user.ID, course.ID, answers)
	require.NoError(t, err)
	assert.InDelta(t, 70.0, result.Score, 1e-9)
	assert.True(t, result.Passed)
}

func TestSubmitQuizRejectsMissingAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	user := createTestUser(t, db, "carol")
	course := createTestCourse(t, db, "HTTP", 1)
	enrollTestUser(t, db, user.ID, course.ID)
	questions := createQuizQuestions(t, db, course.ID, []string{"a", "b"})

	_, err := svc.SubmitQuiz(user.ID, course.ID, map[uint]string{questions[0].ID: "a"})
	assert.ErrorIs(t, err, util.ErrUnansweredQuestion)

	var count int64
	require.NoError(t, db.Model(&model.QuizAttempt{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSubmitQuizWithoutQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	user := createTestUser(t, db, "dave")
	course := createTestCourse(t, db, "Docker", 1)
	enrollTestUser(t, db, user.ID, course.ID)

	_, err := svc.SubmitQuiz(user.ID, course.ID, map[uint]string{})
	assert.ErrorIs(t, err, util.ErrNoQuizQuestions)
}

func TestSubmitQuizRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	user := createTestUser(t, db, "erin")
	course := createTestCourse(t, db, "Rust", 1)
	createQuizQuestions(t, db, course.ID, []string{"a"})

	_, err := svc.SubmitQuiz(user.ID, course.ID, map[uint]string{1: "a"})
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestPassingQuizUpgradesCertificateOnCompletedCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	user := createTestUser(t, db, "frank")
	course := createTestCourse(t, db, "Python", 1)
	enrollment := enrollTestUser(t, db, user.ID, course.ID)

	now := time.Now()
	enrollment.Completion = 1.0
	enrollment.CompletedAt = &now
	require.NoError(t, db.Save(enrollment).Error)

	existing, _, err := svc.Certificate.IssueOrUpdate(db, user.ID, course.ID, 75)
	require.NoError(t, err)

	questions := createQuizQuestions(t, db, course.ID, []string{"a", "b"})
	result, err := svc.SubmitQuiz(user.ID, course.ID, map[uint]string{
		questions[0].ID: "a",
		questions[1].ID: "b",
	})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	require.NotNil(t, result.Certificate)
	assert.Equal(t, 100.0, result.Certificate.Score)
	assert.Equal(t, existing.VerificationCode, result.Certificate.VerificationCode)
}

func TestPassingQuizOnIncompleteCourseIssuesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	user := createTestUser(t, db, "grace")
	course := createTestCourse(t, db, "Java", 1)
	enrollTestUser(t, db, user.ID, course.ID)

	questions := createQuizQuestions(t, db, course.ID, []string{"a"})
	result, err := svc.SubmitQuiz(user.ID, course.ID, map[uint]string{questions[0].ID: "a"})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Nil(t, result.Certificate)
}

func TestGetQuestionsHidesCorrectOption(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	user := createTestUser(t, db, "heidi")
	course := createTestCourse(t, db, "Kubernetes", 1)
	enrollTestUser(t, db, user.ID, course.ID)
	createQuizQuestions(t, db, course.ID, []string{"b"})

	views, err := svc.GetQuestions(user.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Len(t, views[0].Options, 3)
	assert.NotEmpty(t, views[0].Question)
}
