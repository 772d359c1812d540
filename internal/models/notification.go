package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string `gorm:"not null;index"`
	Type    string `gorm:"not null"` // "role_request_submitted", "role_request_approved", "role_request_rejected", ...
	Title   string `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"request_id": "...", "role": "..."}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}
