package dto

// DashboardStats is the read-only summary shown on the member dashboard.
type DashboardStats struct {
	MemberCount         int64 `json:"member_count"`
	AlumniCount         int64 `json:"alumni_count"`
	ProjectCount        int64 `json:"project_count"`
	UpcomingEventCount  int64 `json:"upcoming_event_count"`
	ForumPostCount      int64 `json:"forum_post_count"`
	UnreadNotifications int64 `json:"unread_notifications"`
}
