package model

import "time"

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// User 平台用户
type User struct {
	BaseModel
	Username        string   `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email           string   `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password        string   `gorm:"size:256;not null" json:"-"`
	Role            UserRole `gorm:"size:20;default:student" json:"role"`
	ProfileImageURL string   `gorm:"size:255;default:default_profile.png" json:"profileImageUrl"`
	JoinedDate      time.Time `json:"joinedDate"`

	// 通知偏好
	ReceiveEmailNotifications    bool `gorm:"default:true" json:"receiveEmailNotifications"`
	ReceivePlatformNotifications bool `gorm:"default:true" json:"receivePlatformNotifications"`
}

func (User) TableName() string {
	return "users"
}
