package services

import (
	"context"
	"fmt"
	"log"

	"teamtrack/internal/models"
	"teamtrack/internal/repositories"
)

// NotificationService tells a project manager that a task on their
// project was completed. Delivery is best effort on every channel:
// failures are logged and never bubble up to the caller, the task state
// change is already committed.
type NotificationService interface {
	NotifyTaskCompleted(ctx context.Context, task *models.Task) error
}

type notificationService struct {
	users     repositories.UserRepository
	projects  repositories.ProjectRepository
	emails    Notifier
	messenger Notifier // may be nil when the channel is not configured
}

func NewNotificationService(
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
	emails Notifier,
	messenger Notifier,
) NotificationService {
	return &notificationService{
		users:     users,
		projects:  projects,
		emails:    emails,
		messenger: messenger,
	}
}

func (s *notificationService) NotifyTaskCompleted(ctx context.Context, task *models.Task) error {
	project, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project %d not found", task.ProjectID)
	}

	manager, err := s.users.GetByID(project.ProjectManagerID)
	if err != nil {
		return err
	}
	if manager == nil {
		return ErrUserNotFound
	}

	assignedName := "someone"
	if task.AssignedUserID != nil {
		if assignee, err := s.users.GetByID(*task.AssignedUserID); err == nil && assignee != nil {
			assignedName = assignee.Name
		}
	}

	if s.emails != nil && manager.Email != "" {
		if err := s.emails.Send(manager.Email,
			"Task Completed",
			fmt.Sprintf("Task '%s' was marked as completed by %s.", task.Title, assignedName),
		); err != nil {
			log.Printf("[notify][email] task=%d manager=%s: %v", task.ID, manager.ID, err)
		}
	}

	if s.messenger != nil && manager.Phone != "" {
		if err := s.messenger.Send(manager.Phone,
			"Task completed",
			fmt.Sprintf("Task '%s' has been completed by %s.", task.Title, assignedName),
		); err != nil {
			log.Printf("[notify][messenger] task=%d manager=%s: %v", task.ID, manager.ID, err)
		}
	}
	return nil
}
