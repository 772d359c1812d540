package services

import (
	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"
)

type ProjectService interface {
	Create(userID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	Get(projectID string) (*dto.ProjectResponse, error)
	List(page, pageSize int) (*dto.ProjectListResponse, error)
	Update(actorID, projectID string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(actorID, projectID string) error
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	profileRepo repositories.ProfileRepository
}

func NewProjectService(projectRepo repositories.ProjectRepository, profileRepo repositories.ProfileRepository) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		profileRepo: profileRepo,
	}
}

func (s *projectService) Create(userID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	project := &models.Project{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProjectStatusPlanning,
		RepoURL:     req.RepoURL,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Counter maintenance is best-effort; the dashboard recomputes from the
	// projects table anyway.
	if profile, err := s.profileRepo.FindByID(userID); err == nil {
		profile.ProjectsCount++
		_ = s.profileRepo.Update(profile)
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Get(projectID string) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewProjectResponse(project), nil
}

func (s *projectService) List(page, pageSize int) (*dto.ProjectListResponse, error) {
	projects, total, err := s.projectRepo.FindAll(page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, dto.NewProjectResponse(&projects[i]))
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	return &dto.ProjectListResponse{
		Projects:   responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

func (s *projectService) Update(actorID, projectID string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.loadOwned(actorID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = models.ProjectStatus(*req.Status)
	}
	if req.RepoURL != nil {
		project.RepoURL = *req.RepoURL
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Delete(actorID, projectID string) error {
	if _, err := s.loadOwned(actorID, projectID); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(projectID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// loadOwned allows the owner, or an admin (role re-read from the profile).
func (s *projectService) loadOwned(actorID, projectID string) (*models.Project, error) {
	if actorID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if project.OwnerID == actorID {
		return project, nil
	}
	if actor, err := s.profileRepo.FindByID(actorID); err == nil && actor.IsAdmin() {
		return project, nil
	}
	return nil, apperrors.ErrUnauthorized
}
