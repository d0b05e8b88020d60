package service

import (
	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
)

// DashboardService 聚合个人学习概览
type DashboardService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CertRepo       *repository.CertificateRepository
	Achievement    *AchievementService
	Streak         *StreakService
}

func NewDashboardService(
	enrollmentRepo *repository.EnrollmentRepository,
	certRepo *repository.CertificateRepository,
	achievement *AchievementService,
	streak *StreakService,
) *DashboardService {
	return &DashboardService{
		EnrollmentRepo: enrollmentRepo,
		CertRepo:       certRepo,
		Achievement:    achievement,
		Streak:         streak,
	}
}

// Dashboard 个人概览：报名、完成数、连续登录、徽章、证书
type Dashboard struct {
	EnrolledCourses  int64               `json:"enrolledCourses"`
	CompletedCourses int64               `json:"completedCourses"`
	CurrentStreak    int                 `json:"currentStreak"`
	MaxStreak        int                 `json:"maxStreak"`
	Badges           []EarnedBadge       `json:"badges"`
	Certificates     []model.Certificate `json:"certificates"`
	Enrollments      []model.Enrollment  `json:"enrollments"`
}

func (s *DashboardService) Overview(userID uint) (*Dashboard, error) {
	enrolled, err := s.EnrollmentRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.EnrollmentRepo.CountCompletedByUser(userID)
	if err != nil {
		return nil, err
	}
	streak, err := s.Streak.GetStreak(userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.Achievement.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}
	certs, err := s.CertRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.EnrollmentRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		EnrolledCourses:  enrolled,
		CompletedCourses: completed,
		CurrentStreak:    streak.CurrentStreak,
		MaxStreak:        streak.MaxStreak,
		Badges:           badges,
		Certificates:     certs,
		Enrollments:      enrollments,
	}, nil
}
