package models

// Profile mirrors one User (shared primary key). Created lazily the first
// time an authenticated session is observed without one. Role is written
// only at creation and by the role-request workflow.
type Profile struct {
	BaseModel
	Username       string `gorm:"uniqueIndex;not null"`
	FullName       string
	AvatarURL      string
	Role           Role `gorm:"type:varchar(20);not null;default:'member'"`
	Points         int  `gorm:"default:0"`
	ProjectsCount  int  `gorm:"default:0"`
	EventsAttended int  `gorm:"default:0"`
}

// IsAdmin is the authoritative role check used by the role workflow.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
