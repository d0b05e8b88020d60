package service

import (
	"testing"
	"time"

	"learnify_backend/internal/config"
	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-0123456789abcdef0123456789",
			ExpireTime: time.Hour,
		},
	}
	return NewAuthService(repository.NewUserRepository(db), newStreakService(db), cfg, db)
}

func TestRegisterCreatesUserAndStreak(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "supersecret", user.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("supersecret")))

	var streak model.Streak
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&streak).Error)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.MaxStreak)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterInput{Username: "bob", Email: "bob@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "other", Email: "bob@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	_, err = svc.Register(RegisterInput{Username: "bob", Email: "new@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)
}

func TestLoginIssuesTokenAndAdvancesStreak(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterInput{Username: "carol", Email: "carol@example.com", Password: "supersecret"})
	require.NoError(t, err)

	result, err := svc.Login(LoginInput{Email: "carol@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "carol", result.User.Username)
	require.NotNil(t, result.Streak)
	// 注册当天登录，天数不变
	assert.Equal(t, 1, result.Streak.CurrentStreak)

	claims, err := util.ParseJWT(result.Token, svc.Config.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterInput{Username: "dave", Email: "dave@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Login(LoginInput{Email: "dave@example.com", Password: "wrongpass"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestUpdateProfileTogglesNotifications(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(RegisterInput{Username: "erin", Email: "erin@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.True(t, user.ReceiveEmailNotifications)

	off := false
	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{ReceiveEmailNotifications: &off})
	require.NoError(t, err)
	assert.False(t, updated.ReceiveEmailNotifications)
	assert.True(t, updated.ReceivePlatformNotifications)
}
