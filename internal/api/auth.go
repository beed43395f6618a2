package api

import (
	"net/http" // HTTP status codes

	"blog_system/internal/apperr"  // Semantic error kinds
	"blog_system/internal/dto"     // Request and response bodies
	"blog_system/internal/service" // Account use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterHandler creates an account for the caller
func RegisterHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UserCreateRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		if err := users.Register(c.Request.Context(), req); err != nil {
			// A taken email is answered in plain text like the success message
			if apperr.KindOf(err) == apperr.ErrBadRequest {
				c.String(http.StatusBadRequest, "User already exists")
				return
			}
			respondError(c, err)
			return
		}
		c.String(http.StatusCreated, "User registered successfully")
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		token, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.AuthResponse{Token: token}) // Return the token in the response
	}
}
