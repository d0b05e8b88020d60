package service

import (
	"errors"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"gorm.io/gorm"
)

// CatalogService 课程目录与报名
type CatalogService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Achievement    *AchievementService
	DB             *gorm.DB
}

func NewCatalogService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, achievement *AchievementService, db *gorm.DB) *CatalogService {
	return &CatalogService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Achievement:    achievement,
		DB:             db,
	}
}

// CourseSummary 目录列表项，附带当前用户的报名状态
type CourseSummary struct {
	model.Course
	Enrolled   bool    `json:"enrolled"`
	Completion float64 `json:"completion"`
}

func (s *CatalogService) ListCourses(userID uint) ([]CourseSummary, error) {
	courses, err := s.CourseRepo.FindAll()
	if err != nil {
		return nil, err
	}

	enrolled := map[uint]float64{}
	if userID != 0 {
		enrollments, err := s.EnrollmentRepo.FindByUser(userID)
		if err != nil {
			return nil, err
		}
		for _, e := range enrollments {
			enrolled[e.CourseID] = e.Completion
		}
	}

	summaries := make([]CourseSummary, len(courses))
	for i, c := range courses {
		completion, ok := enrolled[c.ID]
		summaries[i] = CourseSummary{Course: c, Enrolled: ok, Completion: completion}
	}
	return summaries, nil
}

func (s *CatalogService) GetCourse(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

func (s *CatalogService) CreateCourse(course *model.Course) error {
	return s.CourseRepo.Create(course)
}

// EnrollResult 报名结果，首次报名可能附带 first-steps 徽章
type EnrollResult struct {
	Enrollment   *model.Enrollment  `json:"enrollment"`
	AwardedBadge *model.Achievement `json:"awardedBadge,omitempty"`
}

// Enroll 用户报名课程。重复报名报错；
// 首次报名任意课程授予 first-steps 徽章，与报名同一事务。
func (s *CatalogService) Enroll(userID, courseID uint) (*EnrollResult, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	result := &EnrollResult{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Enrollment
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
		if err == nil {
			return util.ErrAlreadyEnrolled
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		enrollment := model.Enrollment{
			UserID:         userID,
			CourseID:       courseID,
			EnrollmentDate: time.Now(),
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}
		result.Enrollment = &enrollment

		badge, newlyAwarded, err := s.Achievement.Award(tx, userID, model.BadgeFirstSteps)
		if err != nil {
			return err
		}
		if newlyAwarded {
			result.AwardedBadge = badge
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CatalogService) MyEnrollments(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.FindByUser(userID)
}
