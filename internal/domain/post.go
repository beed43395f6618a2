package domain

import "time"

// Post Model
type Post struct {
	ID        uint      `gorm:"primaryKey"`                    // Primary key
	AuthorID  uint      `gorm:"index;not null"`                // Foreign key to User
	Author    *User     `gorm:"foreignKey:AuthorID"`           // Author of the post
	Slug      string    `gorm:"size:100;uniqueIndex;not null"` // Unique URL slug
	Title     string    `gorm:"size:100;not null"`             // Title
	Content   string    `gorm:"type:text;not null"`            // Body
	Published bool      `gorm:"not null;default:false"`        // Visible to readers
	Tags      []Tag     `gorm:"many2many:post_tags;"`          // Many-to-many with Tag
	Comments  []Comment `gorm:"foreignKey:PostID"`             // One-to-many with Comment
	CreatedAt time.Time // Set by GORM on create
	UpdatedAt time.Time // Set by GORM on save
}
