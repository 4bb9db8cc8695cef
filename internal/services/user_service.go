package services

import (
	"artexpertise_backend/internal/auth"
	"artexpertise_backend/internal/repositories"
	"artexpertise_backend/internal/services/dto"
	"artexpertise_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repositories.UserRepository
}

func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile возвращает профиль текущего пользователя
func (s *UserService) GetProfile(db *gorm.DB, userID string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	u := dto.NewUserDTO(user)
	return &u, nil
}

// UpdateProfile - частичное обновление: имя и/или пароль.
// Смена пароля требует действующий старый пароль.
func (s *UserService) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	if req.NewPassword != nil {
		if req.OldPassword == nil || !auth.CheckPasswordHash(*req.OldPassword, user.PasswordHash) {
			return nil, apperrors.ErrInvalidCredentials
		}
		if err := auth.ValidatePassword(*req.NewPassword); err != nil {
			return nil, apperrors.ErrWeakPassword
		}
		hash, err := auth.HashPassword(*req.NewPassword)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.PasswordHash = hash

		// Все выданные сессии сбрасываются при смене пароля
		if err := s.userRepo.DeleteUserRefreshTokens(db, userID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	u := dto.NewUserDTO(user)
	return &u, nil
}
