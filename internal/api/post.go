package api

import (
	"net/http" // HTTP status codes

	"blog_system/internal/apperr"     // Semantic error kinds
	"blog_system/internal/dto"        // Request and response bodies
	"blog_system/internal/middleware" // Current user lookup
	"blog_system/internal/service"    // Post use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListPostsHandler returns one filtered page of posts
func ListPostsHandler(posts *service.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params dto.PostParams // Bind query filters
		if err := c.ShouldBindQuery(&params); err != nil {
			respondError(c, apperr.Wrap(apperr.ErrBadRequest, err, "Invalid query parameters"))
			return
		}
		page, size := pagination(c) // Zero-based page and its size
		result, err := posts.List(c.Request.Context(), params, page, size)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GetPostHandler returns a single post
func GetPostHandler(posts *service.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		post, err := posts.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// CreatePostHandler publishes a post for the current user
func CreatePostHandler(posts *service.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.PostCreateRequest
		if !bindJSON(c, &req) {
			return
		}
		post, err := posts.Create(c.Request.Context(), middleware.CurrentUser(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, post)
	}
}

// UpdatePostHandler edits a post of the current user
func UpdatePostHandler(posts *service.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.PostUpdateRequest
		if !bindJSON(c, &req) {
			return
		}
		post, err := posts.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// DeletePostHandler removes a post with its comments
func DeletePostHandler(posts *service.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := posts.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
