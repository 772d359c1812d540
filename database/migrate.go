package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"circuithub_backend/internal/config"
	"circuithub_backend/internal/logger"
	"circuithub_backend/internal/models"
)

var gormDB *gorm.DB

// ConnectGorm initializes GORM with the configured DSN. TranslateError is on
// so unique violations surface as gorm.ErrDuplicatedKey in the repositories.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate migrates all models and applies the indexes AutoMigrate cannot
// express.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.RoleRequest{},
		&models.Notification{},
		&models.Project{},
		&models.Event{},
		&models.ForumPost{},
		&models.ForumComment{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}

	// One pending role request per user, enforced by the database so the
	// check-then-insert race cannot create a second one.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_role_requests_one_pending
		ON role_requests (user_id)
		WHERE status = 'pending'
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create pending role request index: %w", err)
	}

	logger.Info("AutoMigrate completed")
	return nil
}
