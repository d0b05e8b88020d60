package repository

import (
	"learnify_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("id").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index, id")
	}).First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ModulesByCourse 返回课程的模块，按 order 排序，相同时按插入顺序
func (r *CourseRepository) ModulesByCourse(courseID uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.Where("course_id = ?", courseID).Order("order_index, id").Find(&modules).Error
	return modules, err
}

func (r *CourseRepository) FindModule(moduleID uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.First(&module, moduleID).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}
