package api

import (
	"math"     // Page bound
	"net/http" // HTTP status codes
	"reflect"  // Struct tag lookup
	"strconv"  // Path and query parsing
	"strings"  // Tag parsing
	"sync"     // One-time validator setup

	"blog_system/internal/apperr"     // Semantic error kinds
	"blog_system/internal/middleware" // Request ID key

	"github.com/gin-gonic/gin"                                       // Gin web framework
	"github.com/gin-gonic/gin/binding"                               // Request binding
	"github.com/go-faster/errors"                                    // Error inspection
	"github.com/go-playground/validator/v10"                         // Binding validation errors
	"github.com/go-playground/validator/v10/non-standard/validators" // Extra rules such as notblank
	"github.com/sirupsen/logrus"                                     // Logrus for structured logging
)

// Pagination defaults
const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxPage         = math.MaxInt32 / maxPageSize // Keeps page*size in range of every SQL OFFSET
)

var validatorOnce sync.Once

// setupValidator makes validation errors report JSON field names and
// registers the notblank rule used by the request bodies
func setupValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			logrus.Fatalf("failed to register notblank validation: %v", err)
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// respondError writes err as {"error": ...} with the status of its kind
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.Status(kind)
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"path":       c.FullPath(),
			"error":      err.Error(),
		}).Error("Request failed")
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error"})
		return
	}
	body := gin.H{"error": err.Error()}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body["error"] = appErr.Message
		if len(appErr.Fields) > 0 {
			body["fields"] = appErr.Fields
		}
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes and validates the body into dst, answering 400 on
// malformed JSON and 422 on validation failures
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	if fields := validationFields(err); fields != nil {
		respondError(c, apperr.Validation(fields))
		return false
	}
	respondError(c, apperr.Wrap(apperr.ErrBadRequest, err, "Invalid request body"))
	return false
}

// validationFields flattens binding errors into field -> rule, or nil when
// err is not a validation error
func validationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return fields
	}
	// Array bodies report the failures of every invalid element merged
	var slice binding.SliceValidationError
	if errors.As(err, &slice) {
		fields := make(map[string]string)
		for _, e := range slice {
			for name, rule := range validationFields(e) {
				fields[name] = rule
			}
		}
		if len(fields) > 0 {
			return fields
		}
	}
	return nil
}

// pathID parses the :id path parameter
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperr.New(apperr.ErrBadRequest, "Invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// pagination reads the zero-based page and its size, falling back to the
// defaults on bad input and clamping both to their upper bounds
func pagination(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0 // Default page number
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 {
		size = defaultPageSize // Default page size
	}
	if size > maxPageSize {
		size = maxPageSize // Cap page size to prevent abuse
	}
	if page > maxPage {
		page = maxPage // Past the last row of any realistic table
	}
	return page, size
}
