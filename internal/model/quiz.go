package model

import "time"

// QuizOption 选择题选项，CorrectOption 持有正确项的 Key
type QuizOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// QuizQuestion 课程测验题目
type QuizQuestion struct {
	BaseModel
	CourseID      uint         `gorm:"index;not null" json:"courseId"`
	Question      string       `gorm:"size:500;not null" json:"question"`
	Options       []QuizOption `gorm:"serializer:json;not null" json:"options"`
	CorrectOption string       `gorm:"size:10;not null" json:"-"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizAttempt 用户测验记录，Score 为百分制
type QuizAttempt struct {
	BaseModel
	UserID      uint      `gorm:"index;not null" json:"userId"`
	CourseID    uint      `gorm:"index;not null" json:"courseId"`
	Score       float64   `gorm:"not null" json:"score"`
	Passed      bool      `gorm:"default:false" json:"passed"`
	AttemptDate time.Time `json:"attemptDate"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
