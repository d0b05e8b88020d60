package service

import (
	"errors"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"gorm.io/gorm"
)

// 完成第 5 门课程时授予 learning-enthusiast
const enthusiastCourseCount = 5

// ProgressService 模块进度与课程完成度的推进。
// 课程完成度永远由模块进度记录重新算出，不做增量累加。
type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Achievement    *AchievementService
	Certificate    *CertificateService
	DB             *gorm.DB
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	achievement *AchievementService,
	certificate *CertificateService,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		EnrollmentRepo: enrollmentRepo,
		Achievement:    achievement,
		Certificate:    certificate,
		DB:             db,
	}
}

// ProgressResult 一次进度提交引发的全部变化
type ProgressResult struct {
	ModuleID        uint                `json:"moduleId"`
	ModuleCompleted bool                `json:"moduleCompleted"`
	Completion      float64             `json:"completion"`
	CourseCompleted bool                `json:"courseCompleted"` // 本次提交首次达到 100%
	AwardedBadges   []model.Achievement `json:"awardedBadges,omitempty"`
	Certificate     *model.Certificate  `json:"certificate,omitempty"`
}

// RecordModuleProgress 写入或更新单个模块的进度记录。
// completion 截断到 [0,1]，quizScore 截断到 [0,100]。
func (s *ProgressService) RecordModuleProgress(tx *gorm.DB, userID, courseID, moduleID uint, completion float64, quizScore *int) (*model.Progress, error) {
	var module model.Module
	err := tx.First(&module, moduleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}
	if module.CourseID != courseID {
		return nil, util.ErrModuleNotFound
	}

	if completion < 0 {
		completion = 0
	} else if completion > 1 {
		completion = 1
	}
	if quizScore != nil {
		score := *quizScore
		if score < 0 {
			score = 0
		} else if score > 100 {
			score = 100
		}
		quizScore = &score
	}

	var progress model.Progress
	err = tx.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = model.Progress{
			UserID:     userID,
			ModuleID:   moduleID,
			CourseID:   courseID,
			Completion: completion,
			QuizScore:  quizScore,
		}
		if err := tx.Create(&progress).Error; err != nil {
			return nil, err
		}
		return &progress, nil
	}
	if err != nil {
		return nil, err
	}

	progress.Completion = completion
	if quizScore != nil {
		progress.QuizScore = quizScore
	}
	if err := tx.Save(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// RecomputeCompletion 从模块进度重算课程完成度并写回报名记录。
// 完成度 = 完成模块数 / 模块总数，没有模块时恒为 0。
// completed_at 只在首次到达 100% 时盖一次戳，此后不再变动。
// 返回新的完成度和是否首次完成。
func (s *ProgressService) RecomputeCompletion(tx *gorm.DB, enrollment *model.Enrollment, lastModuleID uint) (float64, bool, error) {
	var modules []model.Module
	if err := tx.Where("course_id = ?", enrollment.CourseID).Find(&modules).Error; err != nil {
		return 0, false, err
	}

	completion := 0.0
	if len(modules) > 0 {
		var completed int64
		err := tx.Model(&model.Progress{}).
			Where("user_id = ? AND course_id = ? AND completion >= 1", enrollment.UserID, enrollment.CourseID).
			Count(&completed).Error
		if err != nil {
			return 0, false, err
		}
		completion = float64(completed) / float64(len(modules))
	}

	enrollment.Completion = completion
	if lastModuleID != 0 {
		enrollment.LastModule = lastModuleID
	}

	justCompleted := false
	if completion >= 1.0 && enrollment.CompletedAt == nil {
		now := tx.NowFunc()
		enrollment.CompletedAt = &now
		justCompleted = true
	}

	if err := tx.Save(enrollment).Error; err != nil {
		return 0, false, err
	}
	return completion, justCompleted, nil
}

// SubmitModuleProgress 学员提交一次模块进度：
// 更新模块记录、重算课程完成度、处理随之而来的徽章和证书，整体一个事务。
func (s *ProgressService) SubmitModuleProgress(userID, courseID, moduleID uint, completion float64, quizScore *int) (*ProgressResult, error) {
	result := &ProgressResult{ModuleID: moduleID}
	var pendingCertID uint

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var enrollment model.Enrollment
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotEnrolled
		}
		if err != nil {
			return err
		}

		progress, err := s.RecordModuleProgress(tx, userID, courseID, moduleID, completion, quizScore)
		if err != nil {
			return err
		}
		result.ModuleCompleted = progress.Completion >= 1.0

		if progress.QuizScore != nil && *progress.QuizScore == 100 {
			badge, newlyAwarded, err := s.Achievement.Award(tx, userID, model.BadgePerfectScore)
			if err != nil {
				return err
			}
			if newlyAwarded {
				result.AwardedBadges = append(result.AwardedBadges, *badge)
			}
		}

		courseCompletion, justCompleted, err := s.RecomputeCompletion(tx, &enrollment, moduleID)
		if err != nil {
			return err
		}
		result.Completion = courseCompletion
		result.CourseCompleted = justCompleted

		if justCompleted {
			badge, newlyAwarded, err := s.Achievement.Award(tx, userID, model.BadgeCourseGraduate)
			if err != nil {
				return err
			}
			if newlyAwarded {
				result.AwardedBadges = append(result.AwardedBadges, *badge)
			}

			var completedCourses int64
			err = tx.Model(&model.Enrollment{}).
				Where("user_id = ? AND completed_at IS NOT NULL", userID).
				Count(&completedCourses).Error
			if err != nil {
				return err
			}
			if completedCourses >= enthusiastCourseCount {
				badge, newlyAwarded, err := s.Achievement.Award(tx, userID, model.BadgeLearningEnthusiast)
				if err != nil {
					return err
				}
				if newlyAwarded {
					result.AwardedBadges = append(result.AwardedBadges, *badge)
				}
			}

			cert, changed, err := s.Certificate.CheckAndIssue(tx, userID, courseID)
			if err != nil && !errors.Is(err, util.ErrNotEligible) {
				return err
			}
			if cert != nil {
				result.Certificate = cert
				if changed {
					pendingCertID = cert.ID
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 图片和邮件放在事务外，失败不回滚已提交的进度
	if pendingCertID != 0 {
		s.Certificate.FinalizeArtifact(pendingCertID)
	}
	return result, nil
}

// CourseProgress 某门课程的进度视图
type CourseProgress struct {
	CourseID   uint             `json:"courseId"`
	Completion float64          `json:"completion"`
	LastModule uint             `json:"lastModule,omitempty"`
	Completed  bool             `json:"completed"`
	Modules    []model.Progress `json:"modules"`
}

func (s *ProgressService) GetCourseProgress(userID, courseID uint) (*CourseProgress, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}

	progresses, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	return &CourseProgress{
		CourseID:   courseID,
		Completion: enrollment.Completion,
		LastModule: enrollment.LastModule,
		Completed:  enrollment.CompletedAt != nil,
		Modules:    progresses,
	}, nil
}
