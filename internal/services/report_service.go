package services

import (
	"context"
	"time"

	"teamtrack/internal/authz"
	"teamtrack/internal/pdf"
	"teamtrack/internal/repositories"
)

// Summary is the admin dashboard payload.
type Summary struct {
	Admins          int `json:"admins"`
	ProjectManagers int `json:"project_managers"`
	TeamMembers     int `json:"team_members"`
	Projects        int `json:"projects"`
	TasksPending    int `json:"tasks_pending"`
	TasksInProgress int `json:"tasks_in_progress"`
	TasksCompleted  int `json:"tasks_completed"`
}

type ReportService interface {
	GetSummary(ctx context.Context) (*Summary, error)
	GetSummaryPDF(ctx context.Context) ([]byte, error)
}

type reportService struct {
	users    repositories.UserRepository
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	pdfGen   pdf.Generator
}

func NewReportService(
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
	tasks repositories.TaskRepository,
	pdfGen pdf.Generator,
) ReportService {
	return &reportService{users: users, projects: projects, tasks: tasks, pdfGen: pdfGen}
}

func (s *reportService) GetSummary(ctx context.Context) (*Summary, error) {
	sum := &Summary{}
	var err error

	if sum.Admins, err = s.users.CountByRole(authz.RoleAdmin); err != nil {
		return nil, err
	}
	if sum.ProjectManagers, err = s.users.CountByRole(authz.RoleProjectManager); err != nil {
		return nil, err
	}
	if sum.TeamMembers, err = s.users.CountByRole(authz.RoleTeamMember); err != nil {
		return nil, err
	}
	if sum.Projects, err = s.projects.Count(ctx); err != nil {
		return nil, err
	}
	if sum.TasksPending, sum.TasksInProgress, sum.TasksCompleted, err = s.tasks.CountByStatus(ctx); err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *reportService) GetSummaryPDF(ctx context.Context) ([]byte, error) {
	sum, err := s.GetSummary(ctx)
	if err != nil {
		return nil, err
	}
	return s.pdfGen.GenerateSummary(pdf.SummaryData{
		Admins:          sum.Admins,
		ProjectManagers: sum.ProjectManagers,
		TeamMembers:     sum.TeamMembers,
		Projects:        sum.Projects,
		TasksPending:    sum.TasksPending,
		TasksInProgress: sum.TasksInProgress,
		TasksCompleted:  sum.TasksCompleted,
		GeneratedAt:     time.Now().UTC(),
	})
}
