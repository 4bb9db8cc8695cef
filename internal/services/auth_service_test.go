package services

import (
	"testing"

	"artexpertise_backend/internal/models"
	"artexpertise_backend/internal/repositories"
	"artexpertise_backend/internal/services/dto"
	"artexpertise_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repositories.NewUserRepository())

	reg, err := svc.Register(db, &dto.RegisterRequest{
		Email:    "client@test.com",
		Password: "password123",
		Name:     "Клиент",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.AccessToken)
	assert.NotEmpty(t, reg.RefreshToken)
	// Через публичную регистрацию роль всегда client
	assert.Equal(t, models.UserRoleClient, reg.User.Role)

	login, err := svc.Login(db, &dto.LoginRequest{
		Email:    "client@test.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repositories.NewUserRepository())

	_, err := svc.Register(db, &dto.RegisterRequest{
		Email:    "dup@test.com",
		Password: "password123",
		Name:     "Первый",
	})
	require.NoError(t, err)

	_, err = svc.Register(db, &dto.RegisterRequest{
		Email:    "dup@test.com",
		Password: "password456",
		Name:     "Второй",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegister_WeakPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repositories.NewUserRepository())

	_, err := svc.Register(db, &dto.RegisterRequest{
		Email:    "weak@test.com",
		Password: "123",
		Name:     "Слабый пароль",
	})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repositories.NewUserRepository())

	_, err := svc.Register(db, &dto.RegisterRequest{
		Email:    "login@test.com",
		Password: "password123",
		Name:     "Логин",
	})
	require.NoError(t, err)

	_, err = svc.Login(db, &dto.LoginRequest{Email: "login@test.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Несуществующий email дает ту же ошибку, без утечки информации
	_, err = svc.Login(db, &dto.LoginRequest{Email: "ghost@test.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshToken_Rotation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repositories.NewUserRepository())

	reg, err := svc.Register(db, &dto.RegisterRequest{
		Email:    "refresh@test.com",
		Password: "password123",
		Name:     "Ротация",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(db, reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)

	// Старый токен отозван
	_, err = svc.RefreshToken(db, reg.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repositories.NewUserRepository())

	reg, err := svc.Register(db, &dto.RegisterRequest{
		Email:    "logout@test.com",
		Password: "password123",
		Name:     "Выход",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(db, reg.RefreshToken))

	_, err = svc.RefreshToken(db, reg.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// Повторный logout с тем же токеном
	err = svc.Logout(db, reg.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	authSvc := NewAuthService(repositories.NewUserRepository())
	userSvc := NewUserService(repositories.NewUserRepository())

	reg, err := authSvc.Register(db, &dto.RegisterRequest{
		Email:    "profile@test.com",
		Password: "password123",
		Name:     "Старое Имя",
	})
	require.NoError(t, err)

	updated, err := userSvc.UpdateProfile(db, reg.User.ID, &dto.UpdateProfileRequest{
		Name: strPtr("Новое Имя"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Новое Имя", updated.Name)

	// Смена пароля без старого пароля запрещена
	_, err = userSvc.UpdateProfile(db, reg.User.ID, &dto.UpdateProfileRequest{
		NewPassword: strPtr("newpassword"),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Со старым паролем - разрешена, refresh-токены отзываются
	_, err = userSvc.UpdateProfile(db, reg.User.ID, &dto.UpdateProfileRequest{
		NewPassword: strPtr("newpassword"),
		OldPassword: strPtr("password123"),
	})
	require.NoError(t, err)

	_, err = authSvc.RefreshToken(db, reg.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = authSvc.Login(db, &dto.LoginRequest{Email: "profile@test.com", Password: "newpassword"})
	require.NoError(t, err)
}
