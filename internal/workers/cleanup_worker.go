package workers

import (
	"context"
	"time"

	"circuithub_backend/internal/logger"
	"circuithub_backend/internal/repositories"
)

// CleanupWorker prunes expired refresh tokens and old read notifications in
// the background.
type CleanupWorker struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	notificationRepo repositories.NotificationRepository
	retentionDays    int
}

func NewCleanupWorker(
	refreshTokenRepo repositories.RefreshTokenRepository,
	notificationRepo repositories.NotificationRepository,
	retentionDays int,
) *CleanupWorker {
	if retentionDays < 1 {
		retentionDays = 90
	}
	return &CleanupWorker{
		refreshTokenRepo: refreshTokenRepo,
		notificationRepo: notificationRepo,
		retentionDays:    retentionDays,
	}
}

// Start launches the background cleanup loops.
func (w *CleanupWorker) Start(ctx context.Context) {
	go w.cleanExpiredTokens(ctx)
	go w.cleanOldNotifications(ctx)
}

func (w *CleanupWorker) cleanExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Token cleanup worker stopped")
			return
		case <-ticker.C:
			deleted, err := w.refreshTokenRepo.DeleteExpired()
			if err != nil {
				logger.WithError(err).Error("Error deleting expired refresh tokens")
			} else if deleted > 0 {
				logger.Info("Deleted expired refresh tokens", "count", deleted)
			}
		}
	}
}

func (w *CleanupWorker) cleanOldNotifications(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification cleanup worker stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -w.retentionDays)
			deleted, err := w.notificationRepo.DeleteOlderThan(cutoff)
			if err != nil {
				logger.WithError(err).Error("Error deleting old notifications")
			} else if deleted > 0 {
				logger.Info("Deleted old read notifications", "count", deleted)
			}
		}
	}
}
