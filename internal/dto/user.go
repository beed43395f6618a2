package dto

import "time"

// UserCreateRequest is the body of POST /api/users and POST /api/users/register
type UserCreateRequest struct {
	FirstName string `json:"firstName" binding:"required,notblank,min=2,max=30"`
	LastName  string `json:"lastName" binding:"required,notblank,min=2,max=30"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=64"`
	Birthday  *Date  `json:"birthday"` // YYYY-MM-DD
}

// UserUpdateRequest is the body of PUT /api/users/:id; absent fields stay unchanged
type UserUpdateRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,notblank,min=2,max=30"`
	LastName  *string `json:"lastName" binding:"omitempty,notblank,min=2,max=30"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Birthday  *Date   `json:"birthday"`
}

// UserDTO is the API representation of a user
type UserDTO struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Birthday  *Date     `json:"birthday,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Account email
	Password string `json:"password" binding:"required"` // Plain password
}

// AuthResponse carries the issued bearer token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}
