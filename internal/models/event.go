package models

import "time"

// Event is a club meetup, workshop or talk. Admin-managed.
type Event struct {
	BaseModel
	CreatedBy   string `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Location    string
	StartsAt    time.Time `gorm:"not null;index"`
	EndsAt      time.Time
}
