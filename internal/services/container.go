package services

import "circuithub_backend/internal/email"

// ServiceContainer groups every service for handler wiring.
type ServiceContainer struct {
	AuthService         AuthService
	ProfileService      ProfileService
	RoleRequestService  RoleRequestService
	NotificationService NotificationService
	ProjectService      ProjectService
	EventService        EventService
	ForumService        ForumService
	DashboardService    DashboardService
	EmailProvider       email.Provider
}
