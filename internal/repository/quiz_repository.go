package repository

import (
	"learnify_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) QuestionsByCourse(courseID uint) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("course_id = ?", courseID).Order("id").Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) AttemptsByUserAndCourse(userID, courseID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("attempt_date desc").
		Find(&attempts).Error
	return attempts, err
}
