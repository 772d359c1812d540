package services

import (
	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"
)

type DashboardService interface {
	GetStats(userID string) (*dto.DashboardStats, error)
}

type dashboardService struct {
	profileRepo      repositories.ProfileRepository
	projectRepo      repositories.ProjectRepository
	eventRepo        repositories.EventRepository
	forumRepo        repositories.ForumRepository
	notificationRepo repositories.NotificationRepository
}

func NewDashboardService(
	profileRepo repositories.ProfileRepository,
	projectRepo repositories.ProjectRepository,
	eventRepo repositories.EventRepository,
	forumRepo repositories.ForumRepository,
	notificationRepo repositories.NotificationRepository,
) DashboardService {
	return &dashboardService{
		profileRepo:      profileRepo,
		projectRepo:      projectRepo,
		eventRepo:        eventRepo,
		forumRepo:        forumRepo,
		notificationRepo: notificationRepo,
	}
}

// GetStats aggregates the counters shown on the dashboard. The unread badge
// is scoped to the caller; everything else is club-wide.
func (s *dashboardService) GetStats(userID string) (*dto.DashboardStats, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	stats := &dto.DashboardStats{}

	var err error
	if stats.MemberCount, err = s.profileRepo.CountByRole(models.RoleMember); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.AlumniCount, err = s.profileRepo.CountByRole(models.RoleAlumni); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.ProjectCount, err = s.projectRepo.CountAll(); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.UpcomingEventCount, err = s.eventRepo.CountUpcoming(); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.ForumPostCount, err = s.forumRepo.CountPosts(); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.UnreadNotifications, err = s.notificationRepo.GetUnreadCount(userID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return stats, nil
}
