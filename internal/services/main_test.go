package services

import (
	"fmt"
	"testing"
	"time"

	"artexpertise_backend/internal/auth"
	"artexpertise_backend/internal/config"
	"artexpertise_backend/internal/models"
	"artexpertise_backend/internal/repositories"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB поднимает in-memory sqlite со всеми миграциями.
// TranslateError обязателен: на нем держатся get-or-create черновика
// и идемпотентное добавление картин.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Painting{},
		&models.Expertise{},
		&models.ExpertiseItem{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}

func init() {
	// Сервисы читают JWT-настройки из глобального конфига
	cfg := &config.Config{}
	cfg.JWT.Secret = "test_secret_key_1234567890"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

var userSeq int

func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	userSeq++
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        fmt.Sprintf("user_%d_%d@test.com", userSeq, time.Now().UnixNano()),
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestPainting(t *testing.T, db *gorm.DB, title string) *models.Painting {
	t.Helper()

	painting := &models.Painting{
		Title:  title,
		Artist: "Неизвестный художник",
	}
	if err := db.Create(painting).Error; err != nil {
		t.Fatalf("failed to create test painting: %v", err)
	}
	return painting
}

func newTestExpertiseService() *ExpertiseService {
	return NewExpertiseService(
		repositories.NewExpertiseRepository(),
		repositories.NewPaintingRepository(),
		repositories.NewUserRepository(),
		nil, // без почты в unit-тестах
	)
}
