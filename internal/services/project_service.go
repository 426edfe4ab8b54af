package services

import (
	"context"
	"errors"

	"teamtrack/internal/authz"
	"teamtrack/internal/models"
	"teamtrack/internal/repositories"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectService interface {
	Create(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	GetAll(ctx context.Context) ([]models.Project, error)
	ListRefs(ctx context.Context) ([]models.ProjectRef, error)
	ListProjectManagers(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type projectService struct {
	repo  repositories.ProjectRepository
	users repositories.UserRepository
}

func NewProjectService(repo repositories.ProjectRepository, users repositories.UserRepository) ProjectService {
	return &projectService{repo: repo, users: users}
}

func (s *projectService) Create(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	manager, err := s.users.GetByID(req.ProjectManagerID)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, ErrUserNotFound
	}

	project := &models.Project{
		Name:             req.Name,
		Description:      req.Description,
		ProjectManagerID: req.ProjectManagerID,
	}
	if err := s.repo.Store(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *projectService) GetAll(ctx context.Context) ([]models.Project, error) {
	return s.repo.FindAll(ctx)
}

func (s *projectService) ListRefs(ctx context.Context) ([]models.ProjectRef, error) {
	return s.repo.ListRefs(ctx)
}

func (s *projectService) ListProjectManagers(ctx context.Context) ([]*models.User, error) {
	return s.users.ListByRole(authz.RoleProjectManager)
}

func (s *projectService) Delete(ctx context.Context, id int64) error {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}
	return s.repo.Delete(ctx, id)
}
