package services

import (
	"context"
	"errors"
	"log"
	"time"

	"teamtrack/internal/models"
	"teamtrack/internal/repositories"
)

var ErrTaskNotFound = errors.New("task not found")

// ProjectTasks groups a member's tasks under their project.
type ProjectTasks struct {
	ProjectName string        `json:"project_name"`
	Tasks       []models.Task `json:"tasks"`
}

type TaskService interface {
	Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetAll(ctx context.Context) ([]models.Task, error)
	GetByProject(ctx context.Context, projectID int64) ([]models.Task, error)
	GetMyTasks(ctx context.Context, userID string) ([]ProjectTasks, error)
	Filter(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error)
	Update(ctx context.Context, id int64, update models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) (*models.Task, error)
}

type taskService struct {
	repo     repositories.TaskRepository
	projects repositories.ProjectRepository
	users    repositories.UserRepository
	notify   NotificationService
}

func NewTaskService(
	repo repositories.TaskRepository,
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	notify NotificationService,
) TaskService {
	return &taskService{repo: repo, projects: projects, users: users, notify: notify}
}

func (s *taskService) Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	project, err := s.projects.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	if req.AssignedUserID != nil && *req.AssignedUserID != "" {
		assignee, err := s.users.GetByID(*req.AssignedUserID)
		if err != nil {
			return nil, err
		}
		if assignee == nil {
			return nil, ErrUserNotFound
		}
	}

	task := &models.Task{
		Title:           req.Title,
		Description:     req.Description,
		PercentComplete: req.PercentComplete,
		StartDate:       req.StartDate,
		FinishDate:      req.FinishDate,
		ProjectID:       req.ProjectID,
		AssignedUserID:  req.AssignedUserID,
	}
	if task.AssignedUserID != nil && *task.AssignedUserID == "" {
		task.AssignedUserID = nil
	}
	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) GetAll(ctx context.Context) ([]models.Task, error) {
	return s.repo.FindAll(ctx)
}

func (s *taskService) GetByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	return s.repo.FindByProject(ctx, projectID)
}

func (s *taskService) GetMyTasks(ctx context.Context, userID string) ([]ProjectTasks, error) {
	tasks, err := s.repo.FindByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}

	byProject := map[int64]*ProjectTasks{}
	var order []int64
	for _, t := range tasks {
		g, ok := byProject[t.ProjectID]
		if !ok {
			project, err := s.projects.FindByID(ctx, t.ProjectID)
			if err != nil {
				return nil, err
			}
			name := ""
			if project != nil {
				name = project.Name
			}
			g = &ProjectTasks{ProjectName: name}
			byProject[t.ProjectID] = g
			order = append(order, t.ProjectID)
		}
		g.Tasks = append(g.Tasks, t)
	}

	res := make([]ProjectTasks, 0, len(order))
	for _, id := range order {
		res = append(res, *byProject[id])
	}
	return res, nil
}

func (s *taskService) Filter(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error) {
	return s.repo.Filter(ctx, filter)
}

// Update applies only the fields present in the request.
func (s *taskService) Update(ctx context.Context, id int64, update models.TaskUpdate) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.PercentComplete != nil {
		task.PercentComplete = *update.PercentComplete
	}
	if update.AssignedUserID != nil {
		assignee, err := s.users.GetByID(*update.AssignedUserID)
		if err != nil {
			return nil, err
		}
		if assignee == nil {
			return nil, ErrUserNotFound
		}
		task.AssignedUserID = update.AssignedUserID
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrTaskNotFound
	}
	return s.repo.Delete(ctx, id)
}

// Complete marks the task 100% done and notifies the project manager.
// Notification failure does not undo the completion.
func (s *taskService) Complete(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	now := time.Now().UTC()
	if err := s.repo.MarkCompleted(ctx, id, now); err != nil {
		return nil, err
	}
	task.PercentComplete = 100
	task.FinishDate = &now

	if s.notify != nil {
		if err := s.notify.NotifyTaskCompleted(ctx, task); err != nil {
			log.Printf("[tasks][complete] notify failed for task=%d: %v", id, err)
		}
	}
	return task, nil
}
