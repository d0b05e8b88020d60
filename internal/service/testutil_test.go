package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"learnify_backend/internal/config"
	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newAchievementService(db *gorm.DB) *AchievementService {
	return NewAchievementService(repository.NewAchievementRepository(db))
}

func newCertificateService(db *gorm.DB) *CertificateService {
	return NewCertificateService(
		repository.NewCertificateRepository(db),
		nil, // 测试不渲染图片
		nil,
		NewNotificationService(config.MailConfig{}),
		db,
	)
}

func newProgressService(db *gorm.DB) *ProgressService {
	return NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewEnrollmentRepository(db),
		newAchievementService(db),
		newCertificateService(db),
		db,
	)
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   "hashed",
		Role:       model.Student,
		JoinedDate: time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCourse(t *testing.T, db *gorm.DB, title string, moduleCount int) *model.Course {
	t.Helper()
	course := &model.Course{Title: title, Instructor: "Test Instructor", Level: "beginner"}
	for i := 0; i < moduleCount; i++ {
		course.Modules = append(course.Modules, model.Module{
			Title: fmt.Sprintf("%s module %d", title, i+1),
			Order: i,
		})
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func enrollTestUser(t *testing.T, db *gorm.DB, userID, courseID uint) *model.Enrollment {
	t.Helper()
	enrollment := &model.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentDate: time.Now(),
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

func intPtr(v int) *int {
	return &v
}
