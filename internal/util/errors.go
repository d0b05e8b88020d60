package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrCourseNotFound      = errors.New("course not found")
	ErrModuleNotFound      = errors.New("module not found")
	ErrNotEnrolled         = errors.New("not enrolled in this course")
	ErrAlreadyEnrolled     = errors.New("already enrolled in this course")
	ErrBadgeNotFound       = errors.New("badge not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrNotEligible         = errors.New("not eligible for a certificate")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrNoQuizQuestions     = errors.New("no quiz questions for this course")
	ErrUnansweredQuestion  = errors.New("all questions must be answered")
)
