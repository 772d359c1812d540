package dto

import (
	"time"

	"circuithub_backend/internal/models"
)

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	RepoURL     string `json:"repo_url" validate:"omitempty,url"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Status      *string `json:"status" validate:"omitempty,is-project-status"`
	RepoURL     *string `json:"repo_url" validate:"omitempty,url"`
}

type ProjectResponse struct {
	ID          string               `json:"id"`
	OwnerID     string               `json:"owner_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	RepoURL     string               `json:"repo_url,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type ProjectListResponse struct {
	Projects   []*ProjectResponse `json:"projects"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

func NewProjectResponse(p *models.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		RepoURL:     p.RepoURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
