package service

import (
	"fmt"
	"net/smtp"

	"learnify_backend/internal/config"
	"learnify_backend/internal/model"
	"learnify_backend/pkg/logger"

	"go.uber.org/zap"
)

// NotificationService 证书签发等事件的邮件通知
type NotificationService struct {
	cfg config.MailConfig
}

func NewNotificationService(cfg config.MailConfig) *NotificationService {
	return &NotificationService{cfg: cfg}
}

func (s *NotificationService) Enabled() bool {
	return s.cfg.Enabled && s.cfg.Host != ""
}

// SendCertificateIssued 发送证书签发通知。用户关闭邮件通知时静默跳过。
func (s *NotificationService) SendCertificateIssued(user *model.User, course *model.Course, cert *model.Certificate) error {
	if !s.Enabled() || !user.ReceiveEmailNotifications {
		return nil
	}

	verifyURL := fmt.Sprintf("%s/api/certificates/verify?code=%s", s.cfg.BaseURL, cert.VerificationCode)
	subject := fmt.Sprintf("Your certificate for %s", course.Title)
	body := fmt.Sprintf(`<html><body>
<h2>Congratulations, %s!</h2>
<p>You have completed <strong>%s</strong> with a score of %.1f%%.</p>
<p>Your certificate is ready. Anyone can verify it with the code below:</p>
<p><code>%s</code></p>
<p><a href="%s">Verify this certificate</a></p>
</body></html>`, user.Username, course.Title, cert.Score, cert.VerificationCode, verifyURL)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.cfg.Sender, user.Email, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Sender, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.Sender, []string{user.Email}, []byte(msg)); err != nil {
		logger.Log.Warn("发送证书邮件失败",
			zap.String("email", user.Email),
			zap.Uint("certificateId", cert.ID),
			zap.Error(err))
		return err
	}
	return nil
}
