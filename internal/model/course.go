package model

// Course 课程目录条目
type Course struct {
	BaseModel
	Title       string `gorm:"size:120;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	ImageURL    string `gorm:"size:200" json:"imageUrl"`
	Instructor  string `gorm:"size:100" json:"instructor"`
	Duration    string `gorm:"size:50" json:"duration"`
	Level       string `gorm:"size:20" json:"level"`

	Modules []Module `gorm:"constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Module 课程模块，按 Order 排序，相同时按插入顺序
type Module struct {
	BaseModel
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Title    string `gorm:"size:120;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	VideoURL string `gorm:"size:200" json:"videoUrl"`
	Order    int    `gorm:"column:order_index;default:0" json:"order"`
}

func (Module) TableName() string {
	return "modules"
}
