package api

import (
	"net/http" // HTTP status codes

	"blog_system/internal/dto"     // Request and response bodies
	"blog_system/internal/service" // Tag use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListTagsHandler returns every tag
func ListTagsHandler(tags *service.TagService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := tags.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetTagHandler returns a single tag
func GetTagHandler(tags *service.TagService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		tag, err := tags.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tag)
	}
}

// ListTagPostsHandler returns the posts carrying the tag in the path
func ListTagPostsHandler(posts *service.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		list, err := posts.ListByTag(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// CreateTagHandler stores a tag with a unique name
func CreateTagHandler(tags *service.TagService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.TagCreateRequest
		if !bindJSON(c, &req) {
			return
		}
		tag, err := tags.Create(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, tag)
	}
}

// CreateTagsBulkHandler creates every tag of the array or none of them
func CreateTagsBulkHandler(tags *service.TagService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req []dto.TagCreateRequest
		if !bindJSON(c, &req) {
			return
		}
		created, err := tags.CreateBulk(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// PatchTagHandler renames a tag when a name is given
func PatchTagHandler(tags *service.TagService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.TagUpdateRequest
		if !bindJSON(c, &req) {
			return
		}
		tag, err := tags.Update(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tag)
	}
}

// DeleteTagHandler removes a tag no post uses
func DeleteTagHandler(tags *service.TagService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := tags.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
