package model

import "time"

// Streak 记录用户连续登录天数，每用户一条
type Streak struct {
	BaseModel
	UserID        uint      `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentStreak int       `gorm:"default:0" json:"currentStreak"`
	MaxStreak     int       `gorm:"default:0" json:"maxStreak"`
	LastLogin     time.Time `json:"lastLogin"`
}

func (Streak) TableName() string {
	return "streaks"
}
