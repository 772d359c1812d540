package dto

import (
	"time"

	"circuithub_backend/internal/models"
)

type CreateForumPostRequest struct {
	Title string `json:"title" binding:"required" validate:"required,max=200"`
	Body  string `json:"body" binding:"required" validate:"required,max=20000"`
}

type UpdateForumPostRequest struct {
	Title *string `json:"title" validate:"omitempty,max=200"`
	Body  *string `json:"body" validate:"omitempty,max=20000"`
}

type CreateForumCommentRequest struct {
	Body string `json:"body" binding:"required" validate:"required,max=5000"`
}

type ForumPostResponse struct {
	ID        string                  `json:"id"`
	AuthorID  string                  `json:"author_id"`
	Title     string                  `json:"title"`
	Body      string                  `json:"body"`
	Comments  []*ForumCommentResponse `json:"comments,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

type ForumCommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type ForumPostListResponse struct {
	Posts      []*ForumPostResponse `json:"posts"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

func NewForumPostResponse(p *models.ForumPost) *ForumPostResponse {
	resp := &ForumPostResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for i := range p.Comments {
		resp.Comments = append(resp.Comments, NewForumCommentResponse(&p.Comments[i]))
	}
	return resp
}

func NewForumCommentResponse(c *models.ForumComment) *ForumCommentResponse {
	return &ForumCommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
