package api

import (
	"net/http" // HTTP status codes

	"blog_system/internal/dto"     // Request and response bodies
	"blog_system/internal/service" // Comment use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListCommentsHandler returns every comment
func ListCommentsHandler(comments *service.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := comments.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// ListPostCommentsHandler returns the comments of the post in the path
func ListPostCommentsHandler(comments *service.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, ok := pathID(c, "id")
		if !ok {
			return
		}
		list, err := comments.ListByPost(c.Request.Context(), postID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetCommentHandler returns a single comment
func GetCommentHandler(comments *service.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		comment, err := comments.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, comment)
	}
}

// CreateCommentHandler adds a comment to an existing post
func CreateCommentHandler(comments *service.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CommentCreateRequest
		if !bindJSON(c, &req) {
			return
		}
		comment, err := comments.Create(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}

// UpdateCommentHandler edits a comment, moving it when postId is given
func UpdateCommentHandler(comments *service.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.CommentUpdateRequest
		if !bindJSON(c, &req) {
			return
		}
		comment, err := comments.Update(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, comment)
	}
}

// DeleteCommentHandler removes a comment
func DeleteCommentHandler(comments *service.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := comments.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
