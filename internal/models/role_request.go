package models

import "time"

// RoleRequest is an append-only record of a user asking for a role change.
// pending -> approved | rejected, both terminal. At most one pending row per
// user, enforced by a partial unique index (see database.Migrate).
type RoleRequest struct {
	BaseModel
	UserID        string            `gorm:"not null;index"`
	RequestedRole Role              `gorm:"type:varchar(20);not null"`
	RequestReason string            `gorm:"type:text"`
	Status        RoleRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index"`

	// Review fields, set only on the transition out of pending.
	ReviewedBy *string
	ReviewedAt *time.Time
	AdminNotes string `gorm:"type:text"`
}

// Pending reports whether the request is still open for review.
func (r *RoleRequest) Pending() bool {
	return r.Status == RoleRequestStatusPending
}
