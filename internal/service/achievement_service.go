package service

import (
	"errors"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// AchievementService 负责徽章目录与幂等授予
type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
}

func NewAchievementService(achievementRepo *repository.AchievementRepository) *AchievementService {
	return &AchievementService{AchievementRepo: achievementRepo}
}

// Award 给用户授予指定徽章。重复授予和未知徽章都不报错，
// 返回值表示本次是否产生了新授予；同一 (user, badge) 永远只有一行。
func (s *AchievementService) Award(tx *gorm.DB, userID uint, badgeID string) (*model.Achievement, bool, error) {
	var achievement model.Achievement
	err := tx.Where("badge_id = ?", badgeID).First(&achievement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var existing model.UserAchievement
	err = tx.Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).First(&existing).Error
	if err == nil {
		return &achievement, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	userAchievement := model.UserAchievement{
		UserID:        userID,
		AchievementID: achievement.ID,
		EarnedDate:    time.Now(),
	}
	if err := tx.Create(&userAchievement).Error; err != nil {
		return nil, false, err
	}

	monitoring.BadgesAwarded.WithLabelValues(badgeID).Inc()
	return &achievement, true, nil
}

// EarnedBadge 用户已获得的徽章
type EarnedBadge struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	BadgeID     string    `json:"badgeId"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	EarnedDate  time.Time `json:"earnedDate"`
}

func (s *AchievementService) GetUserAchievements(userID uint) ([]EarnedBadge, error) {
	earned, err := s.AchievementRepo.FindEarnedByUser(userID)
	if err != nil {
		return nil, err
	}

	badges := make([]EarnedBadge, len(earned))
	for i, ua := range earned {
		badges[i] = EarnedBadge{
			Title:       ua.Achievement.Title,
			Description: ua.Achievement.Description,
			BadgeID:     ua.Achievement.BadgeID,
			ImageURL:    ua.Achievement.ImageURL,
			EarnedDate:  ua.EarnedDate,
		}
	}
	return badges, nil
}

func (s *AchievementService) GetCatalog() ([]model.Achievement, error) {
	return s.AchievementRepo.FindAll()
}
