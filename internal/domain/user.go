package domain

import "time"

// Role names
const (
	RoleUser  = "user"  // Regular author
	RoleAdmin = "admin" // May manage other users' content
)

// User Model
type User struct {
	ID             uint       `gorm:"primaryKey"`                    // Primary key
	FirstName      string     `gorm:"size:30;not null"`              // First name
	LastName       string     `gorm:"size:30;not null"`              // Last name
	Email          string     `gorm:"size:255;uniqueIndex;not null"` // Unique email, also the login
	Birthday       *time.Time `gorm:"type:date"`                     // Optional birthday
	PasswordDigest string     `gorm:"not null"`                      // Bcrypt hash
	Role           string     `gorm:"size:16;default:user"`          // Role: user or admin
	Posts          []Post     `gorm:"foreignKey:AuthorID"`           // Authored posts
	CreatedAt      time.Time  // Set by GORM on create
	UpdatedAt      time.Time  // Set by GORM on save
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
