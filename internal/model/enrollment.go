package model

import "time"

// Enrollment 用户选课记录，持有聚合完成度
//
// Completion 只能通过重算得出（模块完成数 / 模块总数），不允许外部直接设置。
// CompletedAt 在完成度首次到达 1.0 时写入，此后不再清空。
type Enrollment struct {
	BaseModel
	UserID         uint       `gorm:"not null;uniqueIndex:idx_user_course" json:"userId"`
	CourseID       uint       `gorm:"not null;uniqueIndex:idx_user_course" json:"courseId"`
	EnrollmentDate time.Time  `json:"enrollmentDate"`
	Completion     float64    `gorm:"default:0" json:"completion"`
	LastModule     uint       `gorm:"default:0" json:"lastModule"`
	CompletedAt    *time.Time `json:"completedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
