package service

import (
	"errors"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"

	"gorm.io/gorm"
)

// StreakService 维护用户的连续登录天数
type StreakService struct {
	StreakRepo  *repository.StreakRepository
	Achievement *AchievementService
}

func NewStreakService(streakRepo *repository.StreakRepository, achievement *AchievementService) *StreakService {
	return &StreakService{
		StreakRepo:  streakRepo,
		Achievement: achievement,
	}
}

// StreakResult 单次登录后连续天数的变化
type StreakResult struct {
	CurrentStreak int                `json:"currentStreak"`
	MaxStreak     int                `json:"maxStreak"`
	Milestone     int                `json:"milestone,omitempty"` // 7 或 30，仅在本次恰好到达时
	AwardedBadge  *model.Achievement `json:"awardedBadge,omitempty"`
}

// RecordLogin 按本地日历日比较上次登录：
// 同一天不变，隔一天 +1，隔多天归 1，无记录则新建并从 1 开始。
// max_streak 恰好到达 7 或 30 时授予对应徽章（精确相等，跳过边界不触发）。
func (s *StreakService) RecordLogin(tx *gorm.DB, userID uint, now time.Time) (*StreakResult, error) {
	var streak model.Streak
	err := tx.Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		streak = model.Streak{
			UserID:        userID,
			CurrentStreak: 1,
			MaxStreak:     1,
			LastLogin:     now,
		}
		if err := tx.Create(&streak).Error; err != nil {
			return nil, err
		}
		return &StreakResult{CurrentStreak: 1, MaxStreak: 1}, nil
	}
	if err != nil {
		return nil, err
	}

	result := &StreakResult{}
	days := calendarDaysBetween(streak.LastLogin, now)

	if days != 0 {
		switch {
		case days == 1:
			streak.CurrentStreak++
			if streak.CurrentStreak > streak.MaxStreak {
				streak.MaxStreak = streak.CurrentStreak
				switch streak.MaxStreak {
				case 7:
					result.Milestone = 7
					badge, newlyAwarded, err := s.Achievement.Award(tx, userID, model.BadgeWeeklyWarrior)
					if err != nil {
						return nil, err
					}
					if newlyAwarded {
						result.AwardedBadge = badge
					}
				case 30:
					result.Milestone = 30
					badge, newlyAwarded, err := s.Achievement.Award(tx, userID, model.BadgeMonthlyMaster)
					if err != nil {
						return nil, err
					}
					if newlyAwarded {
						result.AwardedBadge = badge
					}
				}
			}
		case days > 1:
			// streak broken
			streak.CurrentStreak = 1
		}
		streak.LastLogin = now

		if err := tx.Save(&streak).Error; err != nil {
			return nil, err
		}
	}

	result.CurrentStreak = streak.CurrentStreak
	result.MaxStreak = streak.MaxStreak
	return result, nil
}

func (s *StreakService) GetStreak(userID uint) (*model.Streak, error) {
	streak, err := s.StreakRepo.FindByUser(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.Streak{UserID: userID}, nil
	}
	return streak, err
}

// calendarDaysBetween 按挂钟日期比较，不考虑不足一天的时间差
func calendarDaysBetween(from, to time.Time) int {
	fromDate := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	toDate := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	return int(toDate.Sub(fromDate).Hours() / 24)
}
