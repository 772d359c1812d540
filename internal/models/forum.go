package models

type ForumPost struct {
	BaseModel
	AuthorID string `gorm:"not null;index"`
	Title    string `gorm:"not null"`
	Body     string `gorm:"type:text;not null"`

	// Relations
	Comments []ForumComment `gorm:"foreignKey:PostID"`
}

type ForumComment struct {
	BaseModel
	PostID   string `gorm:"not null;index"`
	AuthorID string `gorm:"not null;index"`
	Body     string `gorm:"type:text;not null"`
}
