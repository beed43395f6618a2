package dto

// TagCreateRequest is the body of POST /api/tags and an item of POST /api/tags/bulk
type TagCreateRequest struct {
	Name string `json:"name" binding:"required,notblank,min=2,max=50"`
}

// TagUpdateRequest is the body of PATCH /api/tags/:id
type TagUpdateRequest struct {
	Name *string `json:"name" binding:"omitempty,notblank,min=2,max=50"` // Unchanged when absent or null
}

// TagDTO is the API representation of a tag
type TagDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
