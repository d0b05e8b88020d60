package service

import (
	"testing"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueOrUpdateCreatesSingleRecord(t *testing.T) {
	db := newTestDB(t)
	svc := newCertificateService(db)
	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, "Go Basics", 1)

	cert, changed, err := svc.IssueOrUpdate(db, user.ID, course.ID, 80)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 80.0, cert.Score)
	assert.NotEmpty(t, cert.VerificationCode)

	var count int64
	require.NoError(t, db.Model(&model.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestScoreNeverDecreases(t *testing.T) {
	db := newTestDB(t)
	svc := newCertificateService(db)
	user := createTestUser(t, db, "bob")
	course := createTestCourse(t, db, "SQL", 1)

	first, _, err := svc.IssueOrUpdate(db, user.ID, course.ID, 80)
	require.NoError(t, err)

	cert, changed, err := svc.IssueOrUpdate(db, user.ID, course.ID, 75)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 80.0, cert.Score)
	assert.Equal(t, first.VerificationCode, cert.VerificationCode)
}

func TestHigherScoreUpdatesInPlace(t *testing.T) {
	db := newTestDB(t)
	svc := newCertificateService(db)
	user := createTestUser(t, db, "carol")
	course := createTestCourse(t, db, "HTTP", 1)

	first, _, err := svc.IssueOrUpdate(db, user.ID, course.ID, 80)
	require.NoError(t, err)

	cert, changed, err := svc.IssueOrUpdate(db, user.ID, course.ID, 90)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 90.0, cert.Score)
	// 校验码签发后不变
	assert.Equal(t, first.VerificationCode, cert.VerificationCode)
	// 旧图片作废
	assert.Empty(t, cert.CertificateURL)

	var count int64
	require.NoError(t, db.Model(&model.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCheckAndIssueRequiresCompletedCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newCertificateService(db)
	user := createTestUser(t, db, "dave")
	course := createTestCourse(t, db, "Docker", 2)
	enrollTestUser(t, db, user.ID, course.ID)

	_, _, err := svc.CheckAndIssue(db, user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrNotEligible)
}

func TestCheckAndIssueRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newCertificateService(db)
	user := createTestUser(t, db, "erin")
	course := createTestCourse(t, db, "Rust", 1)

	_, _, err := svc.CheckAndIssue(db, user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestCheckAndIssueRequiresAllQuizScores(t *testing.T) {
	db := newTestDB(t)
	svc := newCertificateService(db)
	user := createTestUser(t, db, "frank")
	course := createTestCourse(t, db, "Python", 2)
	enrollment := enrollTestUser(t, db, user.ID, course.ID)

	now := time.Now()
	enrollment.Completion = 1.0
	enrollment.CompletedAt = &now
	require.NoError(t, db.Save(enrollment).Error)

	// 只有一个模块有测验成绩
	require.NoError(t, db.Create(&model.Progress{
		UserID:     user.ID,
		CourseID:   course.ID,
		ModuleID:   course.Modules[0].ID,
		Completion: 1.0,
		QuizScore:  intPtr(95),
	}).Error)
	require.NoError(t, db.Create(&model.Progress{
		UserID:     user.ID,
		CourseID:   course.ID,
		ModuleID:   course.Modules[1].ID,
		Completion: 1.0,
	}).Error)

	_, _, err := svc.CheckAndIssue(db, user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrNotEligible)
}

func TestCheckAndIssueAtExactThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := newCertificateService(db)
	user := createTestUser(t, db, "grace")
	course := createTestCourse(t, db, "Java", 2)
	enrollment := enrollTestUser(t, db, user.ID, course.ID)

	now := time.Now()
	enrollment.Completion = 1.0
	enrollment.CompletedAt = &now
	require.NoError(t, db.Save(enrollment).Error)

	for i, score := range []int{60, 80} {
		require.NoError(t, db.Create(&model.Progress{
			UserID:     user.ID,
			CourseID:   course.ID,
			ModuleID:   course.Modules[i].ID,
			Completion: 1.0,
			QuizScore:  intPtr(score),
		}).Error)
	}

	cert, changed, err := svc.CheckAndIssue(db, user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 70.0, cert.Score)
}

func TestVerifyByCode(t *testing.T) {
	db := newTestDB(t)
	svc := newCertificateService(db)
	user := createTestUser(t, db, "heidi")
	course := createTestCourse(t, db, "Kubernetes", 1)

	issued, _, err := svc.IssueOrUpdate(db, user.ID, course.ID, 88)
	require.NoError(t, err)

	cert, err := svc.VerifyByCode(issued.VerificationCode)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, cert.ID)
	assert.Equal(t, "heidi", cert.User.Username)
	assert.Equal(t, "Kubernetes", cert.Course.Title)

	_, err = svc.VerifyByCode("no-such-code")
	assert.ErrorIs(t, err, util.ErrCertificateNotFound)
}

func TestDownloadChecksOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newCertificateService(db)
	owner := createTestUser(t, db, "ivan")
	stranger := createTestUser(t, db, "judy")
	course := createTestCourse(t, db, "Networking", 1)

	issued, _, err := svc.IssueOrUpdate(db, owner.ID, course.ID, 92)
	require.NoError(t, err)
	issued.CertificateURL = "/uploads/certificates/test.jpg"
	require.NoError(t, db.Save(issued).Error)

	_, err = svc.GetForDownload(issued.ID, stranger.ID, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	cert, err := svc.GetForDownload(issued.ID, stranger.ID, true)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, cert.ID)

	cert, err = svc.GetForDownload(issued.ID, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, issued.CertificateURL, cert.CertificateURL)
}
