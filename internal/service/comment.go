package service

import (
	"context" // Request context

	"blog_system/internal/apperr" // Error kinds
	"blog_system/internal/cache"  // Cache prefixes
	"blog_system/internal/domain" // Persistent models
	"blog_system/internal/dto"    // Transfer objects
	"blog_system/internal/mapper" // Model to DTO mapping

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // ORM
)

// CommentService manages comments. Posts embed their comments, so every
// write drops the cached posts.
type CommentService struct {
	base
}

// NewCommentService creates a CommentService
func NewCommentService(db *gorm.DB, opts Options) *CommentService {
	return &CommentService{base: newBase(db, opts)}
}

// List returns all comments ordered by id.
func (s *CommentService) List(ctx context.Context) ([]dto.CommentDTO, error) {
	var comments []domain.Comment
	if err := s.db.WithContext(ctx).Order("id").Find(&comments).Error; err != nil {
		return nil, dbError(err, "list comments")
	}
	return mapper.ToCommentDTOs(comments), nil
}

// Get returns a single comment.
func (s *CommentService) Get(ctx context.Context, id uint) (dto.CommentDTO, error) {
	comment, err := s.find(ctx, s.db, id)
	if err != nil {
		return dto.CommentDTO{}, err
	}
	return mapper.ToCommentDTO(comment), nil
}

// ListByPost returns the comments of one post, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]dto.CommentDTO, error) {
	if err := postExists(ctx, s.db, postID); err != nil {
		return nil, err
	}
	var comments []domain.Comment
	if err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("id").Find(&comments).Error; err != nil {
		return nil, dbError(err, "list comments by post")
	}
	return mapper.ToCommentDTOs(comments), nil
}

// Create adds a comment to an existing post.
func (s *CommentService) Create(ctx context.Context, req dto.CommentCreateRequest) (dto.CommentDTO, error) {
	if err := postExists(ctx, s.db, req.PostID); err != nil {
		return dto.CommentDTO{}, err
	}
	comment := domain.Comment{Body: req.Body, PostID: req.PostID}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return dto.CommentDTO{}, dbError(err, "create comment")
	}

	s.invalidate(ctx, cache.PostsPrefix)
	s.metrics.CountWrite("comment", "create")
	logrus.WithFields(logrus.Fields{"comment_id": comment.ID, "post_id": comment.PostID}).Info("Comment created")
	return mapper.ToCommentDTO(&comment), nil
}

// Update replaces the body and, when PostID is set, moves the comment.
func (s *CommentService) Update(ctx context.Context, id uint, req dto.CommentUpdateRequest) (dto.CommentDTO, error) {
	comment, err := s.find(ctx, s.db, id)
	if err != nil {
		return dto.CommentDTO{}, err
	}
	changes := map[string]any{"body": req.Body}
	if req.PostID != nil && *req.PostID != comment.PostID {
		if err := postExists(ctx, s.db, *req.PostID); err != nil {
			return dto.CommentDTO{}, err
		}
		changes["post_id"] = *req.PostID
	}
	if err := s.db.WithContext(ctx).Model(comment).Updates(changes).Error; err != nil {
		return dto.CommentDTO{}, dbError(err, "update comment")
	}
	comment.Body = req.Body
	if postID, ok := changes["post_id"].(uint); ok {
		comment.PostID = postID
	}

	s.invalidate(ctx, cache.PostsPrefix)
	s.metrics.CountWrite("comment", "update")
	return mapper.ToCommentDTO(comment), nil
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Comment{}, id)
	if res.Error != nil {
		return dbError(res.Error, "delete comment")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Comment", id)
	}

	s.invalidate(ctx, cache.PostsPrefix)
	s.metrics.CountWrite("comment", "delete")
	logrus.WithField("comment_id", id).Info("Comment deleted")
	return nil
}

func (s *CommentService) find(ctx context.Context, tx *gorm.DB, id uint) (*domain.Comment, error) {
	var comment domain.Comment
	if err := tx.WithContext(ctx).First(&comment, id).Error; isNotFound(err) {
		return nil, apperr.NotFound("Comment", id)
	} else if err != nil {
		return nil, dbError(err, "find comment")
	}
	return &comment, nil
}

func postExists(ctx context.Context, tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return dbError(err, "find post")
	}
	if n == 0 {
		return apperr.NotFound("Post", id)
	}
	return nil
}
