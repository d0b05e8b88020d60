package service

import (
	"errors"
	"time"

	"learnify_backend/internal/config"
	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 注册、登录与个人资料
type AuthService struct {
	UserRepo *repository.UserRepository
	Streak   *StreakService
	Config   *config.Config
	DB       *gorm.DB
}

func NewAuthService(userRepo *repository.UserRepository, streak *StreakService, cfg *config.Config, db *gorm.DB) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Streak:   streak,
		Config:   cfg,
		DB:       db,
	}
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register 创建用户并初始化连续登录记录，注册当天算第 1 天
func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	if _, err := s.UserRepo.FindByEmail(input.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.UserRepo.FindByUsername(input.Username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Username:                     input.Username,
		Email:                        input.Email,
		Password:                     string(hashed),
		Role:                         model.Student,
		JoinedDate:                   time.Now(),
		ReceiveEmailNotifications:    true,
		ReceivePlatformNotifications: true,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		_, err := s.Streak.RecordLogin(tx, user.ID, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult 登录响应：令牌、用户和当次连续登录变化
type LoginResult struct {
	Token  string        `json:"token"`
	User   *model.User   `json:"user"`
	Streak *StreakResult `json:"streak"`
}

// Login 校验口令、推进连续登录天数并签发 JWT。
// 凭证错误统一返回 ErrUserNotFound，不区分邮箱不存在和密码不对。
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(input.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, util.ErrUserNotFound
	}

	var streakResult *StreakResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		streakResult, err = s.Streak.RecordLogin(tx, user.ID, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user, Streak: streakResult}, nil
}

func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

type UpdateProfileInput struct {
	ProfileImageURL              *string `json:"profileImageUrl"`
	ReceiveEmailNotifications    *bool   `json:"receiveEmailNotifications"`
	ReceivePlatformNotifications *bool   `json:"receivePlatformNotifications"`
}

func (s *AuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.ProfileImageURL != nil {
		user.ProfileImageURL = *input.ProfileImageURL
	}
	if input.ReceiveEmailNotifications != nil {
		user.ReceiveEmailNotifications = *input.ReceiveEmailNotifications
	}
	if input.ReceivePlatformNotifications != nil {
		user.ReceivePlatformNotifications = *input.ReceivePlatformNotifications
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
