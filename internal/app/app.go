package app

import (
	"errors"
	"fmt"

	"artexpertise_backend/internal/auth"
	"artexpertise_backend/internal/config"
	"artexpertise_backend/internal/email"
	"artexpertise_backend/internal/handlers"
	"artexpertise_backend/internal/logger"
	"artexpertise_backend/internal/middleware"
	"artexpertise_backend/internal/models"
	"artexpertise_backend/internal/routes"
	"artexpertise_backend/internal/services"
	"artexpertise_backend/internal/storage"
	"artexpertise_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	// TranslateError превращает ошибки уникальных индексов в gorm.ErrDuplicatedKey,
	// на этом держатся get-or-create черновика и идемпотентное добавление картин
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Painting{},
		&models.Expertise{},
		&models.ExpertiseItem{},
	); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstManager(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first manager user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	var emailProvider email.Provider
	if cfg.Email.Enabled {
		emailProvider = email.NewGomailSender(cfg)
		logger.Info("Email provider initialized", "host", cfg.Email.SMTPHost)
	} else {
		emailProvider = &NoopEmailProvider{}
		logger.Warn("Email disabled, using noop provider")
	}

	serviceContainer := services.NewServiceContainer(storageInstance, emailProvider)
	appHandlers := initializeHandlers(serviceContainer)
	ginRouter := initializeGinRouter(cfg, gormDB)

	routes.RegisterRoutes(ginRouter, appHandlers)

	// Локальное хранилище отдается самим приложением;
	// для S3/R2 картинки ходят по публичным URL хранилища
	if cfg.Storage.Type == "local" {
		ginRouter.Static("/files", cfg.Storage.BasePath)
	}

	return ginRouter
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:      handlers.NewAuthHandler(baseHandler, sc.AuthService),
		UserHandler:      handlers.NewUserHandler(baseHandler, sc.UserService),
		PaintingHandler:  handlers.NewPaintingHandler(baseHandler, sc.PaintingService, sc.ExpertiseService),
		ExpertiseHandler: handlers.NewExpertiseHandler(baseHandler, sc.ExpertiseService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstManager создает первого менеджера платформы. Регистрация через
// API выдает только роль client, поэтому без seed разрешать заявки некому.
func seedFirstManager(db *gorm.DB, cfg *config.Config) error {
	managerEmail := cfg.FirstManagerEmail
	managerPassword := cfg.FirstManagerPassword

	if managerEmail == "" || managerPassword == "" {
		logger.Warn("FIRST_MANAGER_EMAIL or FIRST_MANAGER_PASSWORD is not set. Skipping manager seeding.")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", managerEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Manager user already exists. Skipping creation.", "email", managerEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for manager user: %w", result.Error)
	}

	logger.Warn("No manager user found. Creating first manager...", "email", managerEmail)

	hash, err := auth.HashPassword(managerPassword)
	if err != nil {
		return fmt.Errorf("failed to hash manager password: %w", err)
	}

	manager := &models.User{
		Email:        managerEmail,
		PasswordHash: hash,
		Name:         "Platform Manager",
		Role:         models.UserRoleManager,
	}

	if err := db.Create(manager).Error; err != nil {
		return fmt.Errorf("failed to create manager user: %w", err)
	}

	logger.Info("Successfully created first manager user", "email", managerEmail)
	return nil
}
