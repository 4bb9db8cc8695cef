package services

import (
	"artexpertise_backend/internal/email"
	"artexpertise_backend/internal/repositories"
	"artexpertise_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService      *AuthService
	UserService      *UserService
	PaintingService  *PaintingService
	ExpertiseService *ExpertiseService
	EmailService     email.Provider
}

// NewServiceContainer собирает сервисы с общими репозиториями
func NewServiceContainer(store storage.Storage, emailProvider email.Provider) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	paintingRepo := repositories.NewPaintingRepository()
	expertiseRepo := repositories.NewExpertiseRepository()

	return &ServiceContainer{
		AuthService:      NewAuthService(userRepo),
		UserService:      NewUserService(userRepo),
		PaintingService:  NewPaintingService(paintingRepo, expertiseRepo, store),
		ExpertiseService: NewExpertiseService(expertiseRepo, paintingRepo, userRepo, emailProvider),
		EmailService:     emailProvider,
	}
}
