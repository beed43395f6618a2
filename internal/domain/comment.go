package domain

import "time"

// Comment Model
type Comment struct {
	ID        uint      `gorm:"primaryKey"`         // Primary key
	Body      string    `gorm:"size:1000;not null"` // Comment text
	PostID    uint      `gorm:"index;not null"`     // Foreign key to Post
	CreatedAt time.Time // Set by GORM on create
}
