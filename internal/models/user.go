package models

import "time"

// User is the authentication identity. Display data and the role live on
// Profile; the identity is never mutated after sign-up except for tokens.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string // empty for SSO-only identities
	SSOSubject   string `gorm:"uniqueIndex;default:null"` // subject claim from the university SSO
	FullName     string // provider metadata, used to default the profile

	// Relations
	Profile       *Profile       `gorm:"foreignKey:ID;references:ID"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
