package models

// Project is a club build published by a member.
type Project struct {
	BaseModel
	OwnerID     string        `gorm:"not null;index"`
	Title       string        `gorm:"not null"`
	Description string        `gorm:"type:text"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'planning'"`
	RepoURL     string
}
