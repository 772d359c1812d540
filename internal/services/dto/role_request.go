package dto

import (
	"time"

	"circuithub_backend/internal/models"
)

type SubmitRoleRequestRequest struct {
	Role   string `json:"role" binding:"required" validate:"required,is-requestable-role"`
	Reason string `json:"reason" validate:"max=2000"`
}

type ReviewRoleRequestRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type RoleRequestResponse struct {
	ID            string                   `json:"id"`
	UserID        string                   `json:"user_id"`
	RequestedRole models.Role              `json:"requested_role"`
	RequestReason string                   `json:"request_reason"`
	Status        models.RoleRequestStatus `json:"status"`
	ReviewedBy    *string                  `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time               `json:"reviewed_at,omitempty"`
	AdminNotes    string                   `json:"admin_notes,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

type RoleRequestListResponse struct {
	Requests   []*RoleRequestResponse `json:"requests"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

func NewRoleRequestResponse(r *models.RoleRequest) *RoleRequestResponse {
	return &RoleRequestResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		RequestedRole: r.RequestedRole,
		RequestReason: r.RequestReason,
		Status:        r.Status,
		ReviewedBy:    r.ReviewedBy,
		ReviewedAt:    r.ReviewedAt,
		AdminNotes:    r.AdminNotes,
		CreatedAt:     r.CreatedAt,
	}
}
