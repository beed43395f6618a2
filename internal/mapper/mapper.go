// Package mapper converts GORM models into API transfer objects.
package mapper

import (
	"blog_system/internal/domain"
	"blog_system/internal/dto"
)

// ToPostDTO maps a post with its preloaded tags and comments
func ToPostDTO(p *domain.Post) dto.PostDTO {
	return dto.PostDTO{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Slug:      p.Slug,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		Tags:      ToTagDTOs(p.Tags),
		Comments:  ToCommentDTOs(p.Comments),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ToPostDTOs(posts []domain.Post) []dto.PostDTO {
	out := make([]dto.PostDTO, len(posts))
	for i := range posts {
		out[i] = ToPostDTO(&posts[i])
	}
	return out
}

func ToCommentDTO(c *domain.Comment) dto.CommentDTO {
	return dto.CommentDTO{ID: c.ID, Body: c.Body, CreatedAt: c.CreatedAt, PostID: c.PostID}
}

func ToCommentDTOs(comments []domain.Comment) []dto.CommentDTO {
	out := make([]dto.CommentDTO, len(comments))
	for i := range comments {
		out[i] = ToCommentDTO(&comments[i])
	}
	return out
}

func ToTagDTO(t *domain.Tag) dto.TagDTO {
	return dto.TagDTO{ID: t.ID, Name: t.Name}
}

func ToTagDTOs(tags []domain.Tag) []dto.TagDTO {
	out := make([]dto.TagDTO, len(tags))
	for i := range tags {
		out[i] = ToTagDTO(&tags[i])
	}
	return out
}

// ToUserDTO never exposes the password digest or the role
func ToUserDTO(u *domain.User) dto.UserDTO {
	var birthday *dto.Date
	if u.Birthday != nil {
		birthday = &dto.Date{Time: *u.Birthday}
	}
	return dto.UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Birthday:  birthday,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserDTOs(users []domain.User) []dto.UserDTO {
	out := make([]dto.UserDTO, len(users))
	for i := range users {
		out[i] = ToUserDTO(&users[i])
	}
	return out
}
