package services

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"artexpertise_backend/internal/auth"
	"artexpertise_backend/internal/models"
	"artexpertise_backend/internal/repositories"
	"artexpertise_backend/internal/services/dto"
	"artexpertise_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// refresh-токен живет 30 дней, потом нужен повторный вход
const refreshTokenTTL = 30 * 24 * time.Hour

type AuthService struct {
	userRepo *repositories.UserRepository
}

func NewAuthService(userRepo *repositories.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register - регистрация нового пользователя.
// Роль всегда client; менеджеры заводятся только через seed.
func (s *AuthService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.UserRoleClient,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(db, user)
}

// Login - аутентификация пользователя
func (s *AuthService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(db, user)
}

// RefreshToken - ротация пары токенов по действующему refresh-токену
func (s *AuthService) RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.userRepo.FindRefreshToken(db, refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.userRepo.DeleteRefreshToken(db, refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Старый токен отзывается, выдается новая пара
	if err := s.userRepo.DeleteRefreshToken(db, refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(db, user)
}

// Logout - отзыв refresh-токена
func (s *AuthService) Logout(db *gorm.DB, refreshToken string) error {
	if err := s.userRepo.DeleteRefreshToken(db, refreshToken); err != nil {
		if apperrors.Is(err, repositories.ErrTokenNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthService) issueTokens(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, expiresAt, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := generateRandomToken()
	record := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.userRepo.CreateRefreshToken(db, record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         dto.NewUserDTO(user),
	}, nil
}

func generateRandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand на linux не возвращает ошибок на практике
		panic(err)
	}
	return hex.EncodeToString(b)
}
