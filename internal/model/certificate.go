package model

import "time"

// Certificate 课程结业证书，(user, course) 最多一条
//
// VerificationCode 生成后不可变；重复结业只会原地提高 Score，不会产生新记录。
// CertificateURL 指向生成的图片文件，缺失时可以按需重新生成。
type Certificate struct {
	BaseModel
	UserID           uint      `gorm:"not null;uniqueIndex:idx_cert_user_course" json:"userId"`
	CourseID         uint      `gorm:"not null;uniqueIndex:idx_cert_user_course" json:"courseId"`
	IssueDate        time.Time `gorm:"not null" json:"issueDate"`
	Score            float64   `gorm:"not null" json:"score"`
	CertificateURL   string    `gorm:"size:255" json:"certificateUrl"`
	VerificationCode string    `gorm:"size:50;uniqueIndex" json:"verificationCode"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Course Course `gorm:"foreignKey:CourseID" json:"-"`
}

func (Certificate) TableName() string {
	return "certificates"
}
