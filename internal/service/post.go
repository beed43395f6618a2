package service

import (
	"context" // Request context
	"fmt"     // Cache key formatting
	"strings" // Filter and slug text handling

	"blog_system/internal/apperr" // Error kinds
	"blog_system/internal/cache"  // Cache prefixes
	"blog_system/internal/domain" // Persistent models
	"blog_system/internal/dto"    // Transfer objects
	"blog_system/internal/mapper" // Model to DTO mapping

	"github.com/gosimple/slug"   // Slug generation
	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // ORM
)

const maxSlugLen = 100

// PostService manages posts and their tag links.
type PostService struct {
	base
}

// NewPostService creates a PostService
func NewPostService(db *gorm.DB, opts Options) *PostService {
	return &PostService{base: newBase(db, opts)}
}

// List returns one page of posts matching params, ordered by id.
func (s *PostService) List(ctx context.Context, params dto.PostParams, page, size int) (dto.Page[dto.PostDTO], error) {
	var out dto.Page[dto.PostDTO]
	name := "list:" + postParamsKey(params) + fmt.Sprintf(":page=%d:size=%d", page, size)
	err := s.cached(ctx, cache.PostsPrefix, name, &out, func() error {
		var total int64
		if err := applyPostFilters(s.db.WithContext(ctx).Model(&domain.Post{}), params).Count(&total).Error; err != nil {
			return dbError(err, "count posts")
		}
		var posts []domain.Post
		err := applyPostFilters(s.db.WithContext(ctx), params).
			Preload("Tags", orderByID("tags.id")).
			Preload("Comments", orderByID("id")).
			Order("id asc").
			Offset(page * size).
			Limit(size).
			Find(&posts).Error
		if err != nil {
			return dbError(err, "list posts")
		}
		out = dto.NewPage(mapper.ToPostDTOs(posts), total, page, size)
		return nil
	})
	return out, err
}

// likeEscaper quotes LIKE wildcards with '!', which needs no escaping in
// MySQL, PostgreSQL or SQLite string literals
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// applyPostFilters narrows a posts query by the optional filters
func applyPostFilters(tx *gorm.DB, p dto.PostParams) *gorm.DB {
	if p.NameCont != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(p.NameCont)) + "%"
		tx = tx.Where("LOWER(title) LIKE ? ESCAPE '!'", pattern)
	}
	if p.AuthorID != nil {
		tx = tx.Where("author_id = ?", *p.AuthorID)
	}
	if p.TagID != nil {
		tx = tx.Where("id IN (SELECT post_id FROM "+domain.PostTagTable+" WHERE tag_id = ?)", *p.TagID)
	}
	if p.Published != nil {
		tx = tx.Where("published = ?", *p.Published)
	}
	if p.CreatedAtGt != nil {
		tx = tx.Where("created_at > ?", *p.CreatedAtGt)
	}
	if p.CreatedAtLt != nil {
		tx = tx.Where("created_at < ?", *p.CreatedAtLt)
	}
	return tx
}

func postParamsKey(p dto.PostParams) string {
	var b strings.Builder
	b.WriteString("name=" + strings.ToLower(p.NameCont))
	if p.AuthorID != nil {
		fmt.Fprintf(&b, ":author=%d", *p.AuthorID)
	}
	if p.TagID != nil {
		fmt.Fprintf(&b, ":tag=%d", *p.TagID)
	}
	if p.Published != nil {
		fmt.Fprintf(&b, ":published=%t", *p.Published)
	}
	if p.CreatedAtGt != nil {
		b.WriteString(":gt=" + p.CreatedAtGt.Format("2006-01-02"))
	}
	if p.CreatedAtLt != nil {
		b.WriteString(":lt=" + p.CreatedAtLt.Format("2006-01-02"))
	}
	return b.String()
}

// Get returns a post with its tags and comments.
func (s *PostService) Get(ctx context.Context, id uint) (dto.PostDTO, error) {
	var out dto.PostDTO
	err := s.cached(ctx, cache.PostsPrefix, fmt.Sprintf("item:%d", id), &out, func() error {
		post, err := s.load(ctx, s.db, id)
		if err != nil {
			return err
		}
		out = mapper.ToPostDTO(post)
		return nil
	})
	return out, err
}

func (s *PostService) load(ctx context.Context, tx *gorm.DB, id uint) (*domain.Post, error) {
	var post domain.Post
	err := tx.WithContext(ctx).
		Preload("Tags", orderByID("tags.id")).
		Preload("Comments", orderByID("id")).
		First(&post, id).Error
	if isNotFound(err) {
		return nil, apperr.NotFound("Post", id)
	} else if err != nil {
		return nil, dbError(err, "find post")
	}
	return &post, nil
}

// ListByTag returns every post carrying the tag.
func (s *PostService) ListByTag(ctx context.Context, tagID uint) ([]dto.PostDTO, error) {
	var tag domain.Tag
	if err := s.db.WithContext(ctx).First(&tag, tagID).Error; isNotFound(err) {
		return nil, apperr.NotFound("Tag", tagID)
	} else if err != nil {
		return nil, dbError(err, "find tag")
	}
	var posts []domain.Post
	err := applyPostFilters(s.db.WithContext(ctx), dto.PostParams{TagID: &tagID}).
		Preload("Tags", orderByID("tags.id")).
		Preload("Comments", orderByID("id")).
		Order("id asc").
		Find(&posts).Error
	if err != nil {
		return nil, dbError(err, "list posts by tag")
	}
	return mapper.ToPostDTOs(posts), nil
}

// Create stores a new post. The author defaults to the actor; only admins
// may post on behalf of someone else.
func (s *PostService) Create(ctx context.Context, actor *domain.User, req dto.PostCreateRequest) (dto.PostDTO, error) {
	if actor == nil {
		return dto.PostDTO{}, apperr.New(apperr.ErrUnauthorized, "authentication required")
	}
	authorID := actor.ID
	if req.AuthorID != nil && *req.AuthorID != actor.ID {
		if err := authorize(actor, *req.AuthorID, "post as another user"); err != nil {
			return dto.PostDTO{}, err
		}
		var author domain.User
		if err := s.db.WithContext(ctx).Select("id").First(&author, *req.AuthorID).Error; isNotFound(err) {
			return dto.PostDTO{}, apperr.NotFound("User", *req.AuthorID)
		} else if err != nil {
			return dto.PostDTO{}, dbError(err, "find author")
		}
		authorID = author.ID
	}

	postSlug := req.Slug
	if postSlug == "" {
		postSlug = makeSlug(req.Title)
		if len(postSlug) < 2 {
			return dto.PostDTO{}, apperr.Validation(map[string]string{"slug": "required"})
		}
	}

	var created *domain.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree(tx, postSlug, 0); err != nil {
			return err
		}
		tags, err := findTags(tx, req.TagIDs)
		if err != nil {
			return err
		}
		post := domain.Post{
			AuthorID:  authorID,
			Slug:      postSlug,
			Title:     req.Title,
			Content:   req.Content,
			Published: req.Published,
			Tags:      tags,
		}
		if err := tx.Omit("Tags.*").Create(&post).Error; err != nil {
			return dbError(err, "create post")
		}
		created, err = s.load(ctx, tx, post.ID)
		return err
	})
	if err != nil {
		return dto.PostDTO{}, err
	}

	s.invalidate(ctx, cache.PostsPrefix)
	s.metrics.CountWrite("post", "create")
	logrus.WithFields(logrus.Fields{
		"post_id":   created.ID,
		"author_id": created.AuthorID,
		"actor_id":  actor.ID,
		"slug":      created.Slug,
	}).Info("Post created")
	return mapper.ToPostDTO(created), nil
}

// Update replaces title and content and, when given, the published flag
// and the tag set.
func (s *PostService) Update(ctx context.Context, actor *domain.User, id uint, req dto.PostUpdateRequest) (dto.PostDTO, error) {
	var updated *domain.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.Post
		if err := tx.First(&post, id).Error; isNotFound(err) {
			return apperr.NotFound("Post", id)
		} else if err != nil {
			return dbError(err, "find post")
		}
		if err := authorize(actor, post.AuthorID, "edit this post"); err != nil {
			return err
		}
		changes := map[string]any{"title": req.Title, "content": req.Content}
		if req.Published != nil {
			changes["published"] = *req.Published
		}
		if err := tx.Model(&post).Updates(changes).Error; err != nil {
			return dbError(err, "update post")
		}
		if req.TagIDs != nil {
			tags, err := findTags(tx, *req.TagIDs)
			if err != nil {
				return err
			}
			assoc := tx.Model(&post).Association("Tags")
			if len(tags) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(tags)
			}
			if err != nil {
				return dbError(err, "replace post tags")
			}
		}
		var err error
		updated, err = s.load(ctx, tx, id)
		return err
	})
	if err != nil {
		return dto.PostDTO{}, err
	}

	s.invalidate(ctx, cache.PostsPrefix)
	s.metrics.CountWrite("post", "update")
	logrus.WithFields(logrus.Fields{"post_id": id, "actor_id": actor.ID}).Info("Post updated")
	return mapper.ToPostDTO(updated), nil
}

// Delete removes a post together with its comments and tag links.
func (s *PostService) Delete(ctx context.Context, actor *domain.User, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.Post
		if err := tx.Select("id", "author_id").First(&post, id).Error; isNotFound(err) {
			return apperr.NotFound("Post", id)
		} else if err != nil {
			return dbError(err, "find post")
		}
		if err := authorize(actor, post.AuthorID, "delete this post"); err != nil {
			return err
		}
		return deletePosts(tx, []uint{id})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, cache.PostsPrefix)
	s.metrics.CountWrite("post", "delete")
	logrus.WithFields(logrus.Fields{"post_id": id, "actor_id": actor.ID}).Info("Post deleted")
	return nil
}

// deletePosts removes posts and everything hanging off them
func deletePosts(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("post_id IN ?", ids).Delete(&domain.Comment{}).Error; err != nil {
		return dbError(err, "delete comments")
	}
	if err := tx.Exec("DELETE FROM "+domain.PostTagTable+" WHERE post_id IN ?", ids).Error; err != nil {
		return dbError(err, "delete post tags")
	}
	if err := tx.Where("id IN ?", ids).Delete(&domain.Post{}).Error; err != nil {
		return dbError(err, "delete posts")
	}
	return nil
}

func ensureSlugFree(tx *gorm.DB, postSlug string, exceptID uint) error {
	var n int64
	if err := tx.Model(&domain.Post{}).Where("slug = ? AND id <> ?", postSlug, exceptID).Count(&n).Error; err != nil {
		return dbError(err, "check slug")
	}
	if n > 0 {
		return apperr.New(apperr.ErrConflict, "Post with slug '%s' already exists", postSlug)
	}
	return nil
}

// findTags loads the tags with the given ids, failing on the first missing one
func findTags(tx *gorm.DB, ids []uint) ([]domain.Tag, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return []domain.Tag{}, nil
	}
	var tags []domain.Tag
	if err := tx.Where("id IN ?", unique).Order("id").Find(&tags).Error; err != nil {
		return nil, dbError(err, "find tags")
	}
	if len(tags) != len(unique) {
		found := make(map[uint]bool, len(tags))
		for _, t := range tags {
			found[t.ID] = true
		}
		for _, id := range unique {
			if !found[id] {
				return nil, apperr.NotFound("Tag", id)
			}
		}
	}
	return tags, nil
}

func makeSlug(title string) string {
	s := slug.Make(title)
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	return s
}
