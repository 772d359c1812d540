package handlers

// AppHandlers holds every handler the router registers.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ProfileHandler      *ProfileHandler
	RoleRequestHandler  *RoleRequestHandler
	NotificationHandler *NotificationHandler
	ProjectHandler      *ProjectHandler
	EventHandler        *EventHandler
	ForumHandler        *ForumHandler
	DashboardHandler    *DashboardHandler
	HealthHandler       *HealthHandler
}
