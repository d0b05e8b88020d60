package model

import "time"

// 固定的徽章标识，与目录种子数据一一对应
const (
	BadgeFirstSteps         = "badge-first-steps"
	BadgeCourseGraduate     = "badge-course-graduate"
	BadgePerfectScore       = "badge-perfect-score"
	BadgeWeeklyWarrior      = "badge-weekly-warrior"
	BadgeMonthlyMaster      = "badge-monthly-master"
	BadgeLearningEnthusiast = "badge-learning-enthusiast"
)

// Achievement 徽章目录条目，创建后不可变
type Achievement struct {
	BaseModel
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"size:200" json:"imageUrl"`
	BadgeID     string `gorm:"size:50;uniqueIndex" json:"badgeId"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement 存在即已获得，(user, achievement) 唯一，授予后不撤销
type UserAchievement struct {
	BaseModel
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"userId"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievementId"`
	EarnedDate    time.Time `json:"earnedDate"`

	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
