package service

import (
	"errors"
	"math"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"gorm.io/gorm"
)

// 课程测验及格线（百分制）
const quizPassThreshold = 70.0

// QuizService 课程级结业测验的出题与判分
type QuizService struct {
	QuizRepo       *repository.QuizRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Certificate    *CertificateService
	DB             *gorm.DB
}

func NewQuizService(quizRepo *repository.QuizRepository, enrollmentRepo *repository.EnrollmentRepository, certificate *CertificateService, db *gorm.DB) *QuizService {
	return &QuizService{
		QuizRepo:       quizRepo,
		EnrollmentRepo: enrollmentRepo,
		Certificate:    certificate,
		DB:             db,
	}
}

// QuizQuestionView 不带正确答案的题目视图
type QuizQuestionView struct {
	ID       uint               `json:"id"`
	Question string             `json:"question"`
	Options  []model.QuizOption `json:"options"`
}

// GetQuestions 返回课程测验题目，正确答案不下发
func (s *QuizService) GetQuestions(userID, courseID uint) ([]QuizQuestionView, error) {
	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	questions, err := s.QuizRepo.QuestionsByCourse(courseID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuizQuestions
	}

	views := make([]QuizQuestionView, len(questions))
	for i, q := range questions {
		views[i] = QuizQuestionView{ID: q.ID, Question: q.Question, Options: q.Options}
	}
	return views, nil
}

// QuizResult 一次测验提交的判分结果
type QuizResult struct {
	Score          float64            `json:"score"`
	Passed         bool               `json:"passed"`
	TotalQuestions int                `json:"totalQuestions"`
	CorrectAnswers int                `json:"correctAnswers"`
	Certificate    *model.Certificate `json:"certificate,omitempty"`
}

// SubmitQuiz 判分并记录一次测验。分数按答对比例折算成百分制，
// 保留两位小数，达到及格线记为通过。每道题都必须作答。
// 课程本身已完成时，通过的测验可以提高证书成绩。
func (s *QuizService) SubmitQuiz(userID, courseID uint, answers map[uint]string) (*QuizResult, error) {
	var enrollment model.Enrollment
	err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}

	questions, err := s.QuizRepo.QuestionsByCourse(courseID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuizQuestions
	}

	correct := 0
	for _, q := range questions {
		answer, ok := answers[q.ID]
		if !ok {
			return nil, util.ErrUnansweredQuestion
		}
		if answer == q.CorrectOption {
			correct++
		}
	}

	score := math.Round(float64(correct)/float64(len(questions))*100*100) / 100
	result := &QuizResult{
		Score:          score,
		Passed:         score >= quizPassThreshold,
		TotalQuestions: len(questions),
		CorrectAnswers: correct,
	}

	var pendingCertID uint
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		attempt := model.QuizAttempt{
			UserID:      userID,
			CourseID:    courseID,
			Score:       score,
			Passed:      result.Passed,
			AttemptDate: time.Now(),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		if result.Passed && enrollment.CompletedAt != nil {
			cert, changed, err := s.Certificate.IssueOrUpdate(tx, userID, courseID, score)
			if err != nil {
				return err
			}
			result.Certificate = cert
			if changed {
				pendingCertID = cert.ID
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if pendingCertID != 0 {
		s.Certificate.FinalizeArtifact(pendingCertID)
	}
	return result, nil
}

func (s *QuizService) Attempts(userID, courseID uint) ([]model.QuizAttempt, error) {
	return s.QuizRepo.AttemptsByUserAndCourse(userID, courseID)
}
