package api

import (
	"net/http" // HTTP status codes

	"blog_system/internal/dto"        // Request and response bodies
	"blog_system/internal/middleware" // Current user lookup
	"blog_system/internal/service"    // User use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListUsersHandler returns every user
func ListUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetUserHandler returns a single user
func GetUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		user, err := users.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// CreateUserHandler lets an admin create an account
func CreateUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UserCreateRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := users.Create(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// UpdateUserHandler edits the given fields of a user
func UpdateUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.UserUpdateRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := users.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// DeleteUserHandler removes a user together with the user's posts
func DeleteUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := users.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
