package services

import (
	"time"

	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"
)

type NotificationService interface {
	GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	GetUnreadCount(userID string) (int64, error)

	// Notify writes a notification and pushes it to the user's connected
	// clients. Used by subsystems outside the role workflow (e.g. event
	// announcements).
	Notify(userID, notificationType, title, message string) error

	// Cleanup deletes read notifications older than the given number of
	// days. Admin-only; also run periodically by the cleanup worker.
	Cleanup(actorID string, olderThanDays int) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	profileRepo      repositories.ProfileRepository
	publisher        NotificationPublisher
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	profileRepo repositories.ProfileRepository,
	publisher NotificationPublisher,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
		publisher:        publisher,
	}
}

func (s *notificationService) GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	repoCriteria := repositories.NotificationCriteria{
		UnreadOnly: criteria.UnreadOnly,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
	}
	if repoCriteria.PageSize < 1 {
		repoCriteria.PageSize = 10
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, repoCriteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, dto.NewNotificationResponse(&notifications[i]))
	}

	page := repoCriteria.Page
	if page < 1 {
		page = 1
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		PageSize:      repoCriteria.PageSize,
		TotalPages:    calculateTotalPages(total, repoCriteria.PageSize),
	}, nil
}

// MarkAsRead is scoped to the owner: a notification id belonging to someone
// else is indistinguishable from a missing one.
func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	if userID == "" {
		return apperrors.ErrNotAuthenticated
	}

	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if notification.UserID != userID {
		return apperrors.ErrNotFound(repositories.ErrNotificationNotFound)
	}

	if err := s.notificationRepo.MarkAsRead(notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	if userID == "" {
		return apperrors.ErrNotAuthenticated
	}
	if _, err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	if userID == "" {
		return 0, apperrors.ErrNotAuthenticated
	}
	count, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) Notify(userID, notificationType, title, message string) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return apperrors.InternalError(err)
	}
	if s.publisher != nil {
		s.publisher.PublishToUser(userID, dto.NewNotificationResponse(notification))
	}
	return nil
}

func (s *notificationService) Cleanup(actorID string, olderThanDays int) (int64, error) {
	if actorID == "" {
		return 0, apperrors.ErrNotAuthenticated
	}
	actor, err := s.profileRepo.FindByID(actorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return 0, apperrors.ErrUnauthorized
		}
		return 0, apperrors.InternalError(err)
	}
	if !actor.IsAdmin() {
		return 0, apperrors.ErrUnauthorized
	}

	if olderThanDays < 1 {
		return 0, apperrors.NewBadRequestError("days must be a positive integer")
	}

	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	deleted, err := s.notificationRepo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return deleted, nil
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
