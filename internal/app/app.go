package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"circuithub_backend/database"
	"circuithub_backend/internal/auth"
	"circuithub_backend/internal/config"
	"circuithub_backend/internal/email"
	"circuithub_backend/internal/handlers"
	"circuithub_backend/internal/logger"
	"circuithub_backend/internal/middleware"
	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
	"circuithub_backend/internal/routes"
	"circuithub_backend/internal/services"
	"circuithub_backend/internal/validator"
	"circuithub_backend/internal/workers"
	"circuithub_backend/ws"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if err := auth.Init(cfg.JWT.Secret, cfg.JWT.TTL); err != nil {
		logger.Fatal("Failed to initialize token signing", "error", err)
	}

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
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

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cleanupWorker := workers.NewCleanupWorker(
		repositories.NewRefreshTokenRepository(gormDB),
		repositories.NewNotificationRepository(gormDB),
		cfg.Notifications.CleanupAfterDay,
	)
	cleanupWorker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	wsManager := ws.NewWebSocketManager()
	go wsManager.Run()

	serviceContainer := initializeServices(cfg, gormDB, wsManager)
	appHandlers := initializeHandlers(serviceContainer)
	wsHandler := ws.NewWebSocketHandler(wsManager, serviceContainer.NotificationService)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, publisher services.NotificationPublisher) *services.ServiceContainer {
	emailProvider := email.NewProvider(cfg)
	if !cfg.Email.Enabled {
		logger.Warn("Email delivery disabled; decision emails will be dropped")
	}

	userRepo := repositories.NewUserRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)
	profileRepo := repositories.NewProfileRepository(gormDB)
	roleRequestRepo := repositories.NewRoleRequestRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	projectRepo := repositories.NewProjectRepository(gormDB)
	eventRepo := repositories.NewEventRepository(gormDB)
	forumRepo := repositories.NewForumRepository(gormDB)
	txManager := repositories.NewTxManager(gormDB)

	var ssoProvider services.SSOExchanger
	if cfg.SSO.ClientID != "" {
		ssoProvider = auth.NewSSOProvider(
			cfg.SSO.ClientID,
			cfg.SSO.ClientSecret,
			cfg.SSO.AuthURL,
			cfg.SSO.TokenURL,
			cfg.SSO.UserInfoURL,
			cfg.SSO.CallbackURL,
		)
	} else {
		logger.Warn("SSO is not configured; only password login is available")
	}

	authService := services.NewAuthService(userRepo, profileRepo, refreshTokenRepo, ssoProvider)
	profileService := services.NewProfileService(profileRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, profileRepo, publisher)
	roleRequestService := services.NewRoleRequestService(
		roleRequestRepo, profileRepo, notificationRepo, userRepo, txManager, publisher, emailProvider)
	projectService := services.NewProjectService(projectRepo, profileRepo)
	eventService := services.NewEventService(eventRepo, profileRepo, notificationService)
	forumService := services.NewForumService(forumRepo, profileRepo)
	dashboardService := services.NewDashboardService(profileRepo, projectRepo, eventRepo, forumRepo, notificationRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		ProfileService:      profileService,
		RoleRequestService:  roleRequestService,
		NotificationService: notificationService,
		ProjectService:      projectService,
		EventService:        eventService,
		ForumService:        forumService,
		DashboardService:    dashboardService,
		EmailProvider:       emailProvider,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, container.ProfileService),
		RoleRequestHandler:  handlers.NewRoleRequestHandler(baseHandler, container.RoleRequestService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
		ProjectHandler:      handlers.NewProjectHandler(baseHandler, container.ProjectService),
		EventHandler:        handlers.NewEventHandler(baseHandler, container.EventService),
		ForumHandler:        handlers.NewForumHandler(baseHandler, container.ForumService),
		DashboardHandler:    handlers.NewDashboardHandler(baseHandler, container.DashboardService),
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	router.Use(middleware.Gatekeeper())
	return router
}

// seedFirstAdmin bootstraps the first admin account from config. Without it
// no one could ever approve the first role request.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var adminUser models.User
		result := tx.Where("email = ?", adminEmail).First(&adminUser)
		if result.Error == nil {
			logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
			return nil
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", result.Error)
		}

		logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		newAdmin := &models.User{
			Email:        adminEmail,
			PasswordHash: string(hashedPassword),
		}
		if err := tx.Create(newAdmin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		adminProfile := &models.Profile{
			BaseModel: models.BaseModel{ID: newAdmin.ID},
			Username:  "admin",
			Role:      models.RoleAdmin,
		}
		if err := tx.Create(adminProfile).Error; err != nil {
			return fmt.Errorf("failed to create admin profile: %w", err)
		}

		return nil
	})
}
