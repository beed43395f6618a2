package service

import (
	"context" // Request context
	"fmt"     // Cache key formatting

	"blog_system/internal/apperr" // Error kinds
	"blog_system/internal/cache"  // Cache prefixes
	"blog_system/internal/domain" // Persistent models
	"blog_system/internal/dto"    // Transfer objects
	"blog_system/internal/mapper" // Model to DTO mapping

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // ORM
)

// TagService manages tags. Posts embed tag names, so renames also drop the
// cached posts.
type TagService struct {
	base
}

// NewTagService creates a TagService
func NewTagService(db *gorm.DB, opts Options) *TagService {
	return &TagService{base: newBase(db, opts)}
}

// List returns all tags ordered by id.
func (s *TagService) List(ctx context.Context) ([]dto.TagDTO, error) {
	var out []dto.TagDTO
	err := s.cached(ctx, cache.TagsPrefix, "list", &out, func() error {
		var tags []domain.Tag
		if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
			return dbError(err, "list tags")
		}
		out = mapper.ToTagDTOs(tags)
		return nil
	})
	return out, err
}

// Get returns a single tag.
func (s *TagService) Get(ctx context.Context, id uint) (dto.TagDTO, error) {
	var out dto.TagDTO
	err := s.cached(ctx, cache.TagsPrefix, fmt.Sprintf("item:%d", id), &out, func() error {
		tag, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		out = mapper.ToTagDTO(tag)
		return nil
	})
	return out, err
}

// Create stores a tag with a unique name.
func (s *TagService) Create(ctx context.Context, req dto.TagCreateRequest) (dto.TagDTO, error) {
	created, err := s.CreateBulk(ctx, []dto.TagCreateRequest{req})
	if err != nil {
		return dto.TagDTO{}, err
	}
	return created[0], nil
}

// CreateBulk stores all tags or none. Names must be unique across the batch
// and the existing tags.
func (s *TagService) CreateBulk(ctx context.Context, reqs []dto.TagCreateRequest) ([]dto.TagDTO, error) {
	if len(reqs) == 0 {
		return []dto.TagDTO{}, nil
	}
	tags := make([]domain.Tag, len(reqs))
	names := make([]string, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for i, r := range reqs {
		if seen[r.Name] {
			return nil, apperr.New(apperr.ErrConflict, "Tag with name '%s' is repeated", r.Name)
		}
		seen[r.Name] = true
		tags[i] = domain.Tag{Name: r.Name}
		names[i] = r.Name
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Tag
		err := tx.Where("name IN ?", names).Order("id").First(&existing).Error
		if err == nil {
			return apperr.New(apperr.ErrConflict, "Tag with name '%s' already exists", existing.Name)
		} else if !isNotFound(err) {
			return dbError(err, "check tag names")
		}
		if err := tx.Create(&tags).Error; err != nil {
			return dbError(err, "create tags")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.TagsPrefix)
	s.metrics.CountWrite("tag", "create")
	logrus.WithField("names", names).Info("Tags created")
	return mapper.ToTagDTOs(tags), nil
}

// Update renames a tag when a name is given.
func (s *TagService) Update(ctx context.Context, id uint, req dto.TagUpdateRequest) (dto.TagDTO, error) {
	tag, err := s.find(ctx, id)
	if err != nil {
		return dto.TagDTO{}, err
	}
	if req.Name == nil || *req.Name == tag.Name {
		return mapper.ToTagDTO(tag), nil
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.Tag{}).Where("name = ? AND id <> ?", *req.Name, id).Count(&n).Error; err != nil {
		return dto.TagDTO{}, dbError(err, "check tag name")
	}
	if n > 0 {
		return dto.TagDTO{}, apperr.New(apperr.ErrConflict, "Tag with name '%s' already exists", *req.Name)
	}
	if err := s.db.WithContext(ctx).Model(tag).Update("name", *req.Name).Error; err != nil {
		return dto.TagDTO{}, dbError(err, "update tag")
	}
	tag.Name = *req.Name

	s.invalidate(ctx, cache.TagsPrefix, cache.PostsPrefix)
	s.metrics.CountWrite("tag", "update")
	return mapper.ToTagDTO(tag), nil
}

// Delete removes a tag that no post uses.
func (s *TagService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag domain.Tag
		if err := tx.First(&tag, id).Error; isNotFound(err) {
			return apperr.NotFound("Tag", id)
		} else if err != nil {
			return dbError(err, "find tag")
		}
		var used int64
		if err := tx.Table(domain.PostTagTable).Where("tag_id = ?", id).Count(&used).Error; err != nil {
			return dbError(err, "count tag posts")
		}
		if used > 0 {
			return apperr.New(apperr.ErrConflict,
				"Cannot delete tag that is associated with posts. First remove the tag from all posts.")
		}
		if err := tx.Delete(&tag).Error; err != nil {
			return dbError(err, "delete tag")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, cache.TagsPrefix)
	s.metrics.CountWrite("tag", "delete")
	logrus.WithField("tag_id", id).Info("Tag deleted")
	return nil
}

func (s *TagService) find(ctx context.Context, id uint) (*domain.Tag, error) {
	var tag domain.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; isNotFound(err) {
		return nil, apperr.NotFound("Tag", id)
	} else if err != nil {
		return nil, dbError(err, "find tag")
	}
	return &tag, nil
}
