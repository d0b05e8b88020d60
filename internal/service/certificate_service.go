package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"
	"learnify_backend/pkg/certgen"
	"learnify_backend/pkg/logger"
	"learnify_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 证书资格线：全部模块测验的平均分
const certificateScoreThreshold = 70.0

// CertificateService 证书的签发、补发与校验。
// 数据库记录和图片产物分两步：记录在事务内写入，
// 图片在事务提交后生成，失败只记日志，下次访问时懒生成。
type CertificateService struct {
	CertRepo *repository.CertificateRepository
	Renderer *certgen.Renderer
	Storage  *StorageService
	Notifier *NotificationService
	DB       *gorm.DB
}

func NewCertificateService(
	certRepo *repository.CertificateRepository,
	renderer *certgen.Renderer,
	storage *StorageService,
	notifier *NotificationService,
	db *gorm.DB,
) *CertificateService {
	return &CertificateService{
		CertRepo: certRepo,
		Renderer: renderer,
		Storage:  storage,
		Notifier: notifier,
		DB:       db,
	}
}

// IssueOrUpdate 签发新证书或更新已有证书的成绩。
// 每个 (user, course) 只有一张证书；成绩只升不降；
// 校验码签发时生成一次，此后永不改变。
// 返回值第二项表示记录本次是否被创建或修改。
func (s *CertificateService) IssueOrUpdate(tx *gorm.DB, userID, courseID uint, score float64) (*model.Certificate, bool, error) {
	var cert model.Certificate
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if err == nil {
		if score <= cert.Score {
			return &cert, false, nil
		}
		cert.Score = score
		cert.IssueDate = time.Now()
		// 成绩变了，旧图片作废，等待重新生成
		cert.CertificateURL = ""
		if err := tx.Save(&cert).Error; err != nil {
			return nil, false, err
		}
		return &cert, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	cert = model.Certificate{
		UserID:    userID,
		CourseID:  courseID,
		IssueDate: time.Now(),
		Score:     score,
	}
	for i := 0; i < 5; i++ {
		code := uuid.New().String()
		var count int64
		if err := tx.Model(&model.Certificate{}).Where("verification_code = ?", code).Count(&count).Error; err != nil {
			return nil, false, err
		}
		if count == 0 {
			cert.VerificationCode = code
			break
		}
	}
	if err := tx.Create(&cert).Error; err != nil {
		return nil, false, err
	}

	monitoring.CertificatesIssued.Inc()
	return &cert, true, nil
}

// CheckAndIssue 检查课程证书资格并在达标时签发。
// 条件：课程已完成、至少一个模块、每个模块都有测验成绩、平均分达线。
// 不达标返回 util.ErrNotEligible。
func (s *CertificateService) CheckAndIssue(tx *gorm.DB, userID, courseID uint) (*model.Certificate, bool, error) {
	var enrollment model.Enrollment
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, util.ErrNotEnrolled
	}
	if err != nil {
		return nil, false, err
	}
	if enrollment.CompletedAt == nil {
		return nil, false, util.ErrNotEligible
	}

	var modules []model.Module
	if err := tx.Where("course_id = ?", courseID).Find(&modules).Error; err != nil {
		return nil, false, err
	}
	if len(modules) == 0 {
		return nil, false, util.ErrNotEligible
	}

	var progresses []model.Progress
	if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&progresses).Error; err != nil {
		return nil, false, err
	}
	scores := make(map[uint]int, len(progresses))
	for _, p := range progresses {
		if p.QuizScore != nil {
			scores[p.ModuleID] = *p.QuizScore
		}
	}

	total := 0
	for _, m := range modules {
		score, ok := scores[m.ID]
		if !ok {
			return nil, false, util.ErrNotEligible
		}
		total += score
	}

	average := float64(total) / float64(len(modules))
	if average < certificateScoreThreshold {
		return nil, false, util.ErrNotEligible
	}

	return s.IssueOrUpdate(tx, userID, courseID, average)
}

// FinalizeArtifact 在事务提交后生成证书图片并发通知。
// 任何一步失败都只记日志，不影响已提交的记录。
func (s *CertificateService) FinalizeArtifact(certID uint) {
	cert, err := s.CertRepo.FindByID(certID)
	if err != nil {
		logger.Log.Warn("证书产物生成失败：记录读取出错", zap.Uint("certificateId", certID), zap.Error(err))
		return
	}

	if err := s.GenerateArtifact(cert); err != nil {
		logger.Log.Warn("证书图片生成失败", zap.Uint("certificateId", cert.ID), zap.Error(err))
		return
	}

	if err := s.Notifier.SendCertificateIssued(&cert.User, &cert.Course, cert); err != nil {
		// 邮件失败已在 Notifier 内记录
		return
	}
}

// GenerateArtifact 渲染证书图片并上传，更新记录中的 URL。
// cert 需带 User 和 Course 关联。
func (s *CertificateService) GenerateArtifact(cert *model.Certificate) error {
	if s.Renderer == nil {
		return fmt.Errorf("certificate renderer not configured")
	}
	localPath, err := s.Renderer.Render(cert.User.Username, cert.Course.Title, cert.Score, cert.IssueDate, cert.VerificationCode)
	if err != nil {
		return fmt.Errorf("render certificate: %w", err)
	}

	objectName := fmt.Sprintf("certificates/certificate_%s.jpg", cert.VerificationCode)
	url, err := s.Storage.UploadFile(context.Background(), objectName, localPath, "image/jpeg")
	if err != nil {
		return fmt.Errorf("upload certificate: %w", err)
	}

	cert.CertificateURL = url
	return s.CertRepo.Save(cert)
}

func (s *CertificateService) MyCertificates(userID uint) ([]model.Certificate, error) {
	return s.CertRepo.FindByUser(userID)
}

// GetForDownload 返回证书及其图片地址，图片缺失时现场补生成
func (s *CertificateService) GetForDownload(certID, userID uint, isAdmin bool) (*model.Certificate, error) {
	cert, err := s.CertRepo.FindByID(certID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCertificateNotFound
	}
	if err != nil {
		return nil, err
	}
	if cert.UserID != userID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}

	if cert.CertificateURL == "" {
		if err := s.GenerateArtifact(cert); err != nil {
			return nil, err
		}
	}
	return cert, nil
}

// VerifyByCode 按校验码公开查验证书
func (s *CertificateService) VerifyByCode(code string) (*model.Certificate, error) {
	cert, err := s.CertRepo.FindByCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCertificateNotFound
	}
	if err != nil {
		return nil, err
	}

	if cert.CertificateURL == "" {
		if err := s.GenerateArtifact(cert); err != nil {
			logger.Log.Warn("证书图片懒生成失败", zap.Uint("certificateId", cert.ID), zap.Error(err))
		}
	}
	return cert, nil
}
