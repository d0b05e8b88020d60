package model

// Progress 用户在单个模块上的进度，(user, module) 唯一
type Progress struct {
	BaseModel
	UserID     uint    `gorm:"not null;uniqueIndex:idx_user_module" json:"userId"`
	CourseID   uint    `gorm:"index;not null" json:"courseId"`
	ModuleID   uint    `gorm:"not null;uniqueIndex:idx_user_module" json:"moduleId"`
	Completion float64 `gorm:"default:0" json:"completion"`
	QuizScore  *int    `json:"quizScore"`
}

func (Progress) TableName() string {
	return "progress"
}
