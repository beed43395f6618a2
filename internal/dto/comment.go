package dto

import "time"

// CommentCreateRequest is the body of POST /api/comments
type CommentCreateRequest struct {
	Body   string `json:"body" binding:"required,notblank,max=1000"` // Comment text
	PostID uint   `json:"postId" binding:"required"`                 // Commented post
}

// CommentUpdateRequest is the body of PUT /api/comments/:id
type CommentUpdateRequest struct {
	Body   string `json:"body" binding:"required,notblank,max=1000"` // New text
	PostID *uint  `json:"postId"`                                    // Moves the comment when set
}

// CommentDTO is the API representation of a comment
type CommentDTO struct {
	ID        uint      `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	PostID    uint      `json:"postId"`
}
