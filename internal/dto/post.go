package dto

import "time"

// PostCreateRequest is the body of POST /api/posts
type PostCreateRequest struct {
	AuthorID  *uint  `json:"authorId"`                                        // Defaults to the caller
	Slug      string `json:"slug" binding:"omitempty,min=2,max=100"`          // Derived from the title when empty
	Title     string `json:"title" binding:"required,notblank,min=3,max=100"` // Post title
	Content   string `json:"content" binding:"required,notblank,min=10"`      // Post body
	Published bool   `json:"published"`                                       // Draft by default
	TagIDs    []uint `json:"tagIds"`                                          // Tags to attach
}

// PostUpdateRequest is the body of PUT /api/posts/:id
type PostUpdateRequest struct {
	Title     string  `json:"title" binding:"required,notblank,min=3,max=100"` // New title
	Content   string  `json:"content" binding:"required,notblank,min=10"`      // New body
	Published *bool   `json:"published"`                                       // Unchanged when absent
	TagIDs    *[]uint `json:"tagIds"`                                          // Unchanged when absent, cleared when empty
}

// PostParams are the filters of GET /api/posts
type PostParams struct {
	NameCont    string     `form:"nameCont"`                                          // Title contains, case-insensitive
	AuthorID    *uint      `form:"authorId"`                                          // Posts of one author
	TagID       *uint      `form:"tagId"`                                             // Posts carrying a tag
	Published   *bool      `form:"published"`                                         // Published or drafts only
	CreatedAtGt *time.Time `form:"createdAtGt" time_format:"2006-01-02" time_utc:"1"` // Created after this date
	CreatedAtLt *time.Time `form:"createdAtLt" time_format:"2006-01-02" time_utc:"1"` // Created before this date
}

// PostDTO is the API representation of a post
type PostDTO struct {
	ID        uint         `json:"id"`
	AuthorID  uint         `json:"authorId"`
	Slug      string       `json:"slug"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Published bool         `json:"published"`
	Tags      []TagDTO     `json:"tags"`
	Comments  []CommentDTO `json:"comments"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
