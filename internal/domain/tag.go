package domain

// Tag Model
type Tag struct {
	ID    uint   `gorm:"primaryKey"`                   // Primary key
	Name  string `gorm:"size:50;uniqueIndex;not null"` // Unique tag name
	Posts []Post `gorm:"many2many:post_tags;"`         // Inverse side of Post.Tags
}

// PostTagTable is the join table between posts and tags
const PostTagTable = "post_tags"
