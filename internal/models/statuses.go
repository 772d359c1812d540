package models

type Role string
type RoleRequestStatus string
type ProjectStatus string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleAlumni Role = "alumni"

	RoleRequestStatusPending  RoleRequestStatus = "pending"
	RoleRequestStatusApproved RoleRequestStatus = "approved"
	RoleRequestStatusRejected RoleRequestStatus = "rejected"

	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleMember, RoleAdmin, RoleAlumni:
		return true
	}
	return false
}

// SelfRequestableRole reports whether a user may request s for themselves.
// Admin is granted manually, never via a role request.
func SelfRequestableRole(s string) bool {
	switch Role(s) {
	case RoleMember, RoleAlumni:
		return true
	}
	return false
}
