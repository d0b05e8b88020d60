package model

import "time"

// ChatMessage 聊天机器人对话记录
type ChatMessage struct {
	BaseModel
	UserID     uint      `gorm:"index;not null" json:"userId"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsFromUser bool      `gorm:"default:true;not null" json:"isFromUser"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
