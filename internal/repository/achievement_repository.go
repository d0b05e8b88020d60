package repository

import (
	"learnify_backend/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FindByBadgeID(badgeID string) (*model.Achievement, error) {
	var achievement model.Achievement
	err := r.DB.Where("badge_id = ?", badgeID).First(&achievement).Error
	if err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *AchievementRepository) FindAll() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Order("id").Find(&achievements).Error
	return achievements, err
}

// FindEarnedByUser 返回用户已获得的徽章及获得时间
func (r *AchievementRepository) FindEarnedByUser(userID uint) ([]model.UserAchievement, error) {
	var earned []model.UserAchievement
	err := r.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_date").
		Find(&earned).Error
	return earned, err
}
