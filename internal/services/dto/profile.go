package dto

import (
	"time"

	"circuithub_backend/internal/models"
)

type ProfileResponse struct {
	ID             string      `json:"id"`
	Username       string      `json:"username"`
	FullName       string      `json:"full_name"`
	AvatarURL      string      `json:"avatar_url"`
	Role           models.Role `json:"role"`
	Points         int         `json:"points"`
	ProjectsCount  int         `json:"projects_count"`
	EventsAttended int         `json:"events_attended"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// UpdateProfileRequest covers the fields a user may edit themselves.
// Role is deliberately absent; only the role workflow changes it.
type UpdateProfileRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=32"`
	FullName  *string `json:"full_name" validate:"omitempty,max=128"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

func NewProfileResponse(p *models.Profile) *ProfileResponse {
	return &ProfileResponse{
		ID:             p.ID,
		Username:       p.Username,
		FullName:       p.FullName,
		AvatarURL:      p.AvatarURL,
		Role:           p.Role,
		Points:         p.Points,
		ProjectsCount:  p.ProjectsCount,
		EventsAttended: p.EventsAttended,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
