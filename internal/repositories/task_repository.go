package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"teamtrack/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindAll(ctx context.Context) ([]models.Task, error)
	FindByAssignee(ctx context.Context, userID string) ([]models.Task, error)
	FindByProject(ctx context.Context, projectID int64) ([]models.Task, error)
	Filter(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	MarkCompleted(ctx context.Context, id int64, finishedAt time.Time) error
	CountByStatus(ctx context.Context) (pending, inProgress, completed int, err error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, percent_complete, start_date, finish_date, project_id, assigned_user_id, created_date`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	const q = `
		INSERT INTO tasks (title, description, percent_complete, start_date, finish_date, project_id, assigned_user_id, created_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		RETURNING id, created_date`
	return r.db.QueryRowContext(ctx, q,
		task.Title, task.Description, task.PercentComplete,
		task.StartDate, task.FinishDate, task.ProjectID, task.AssignedUserID,
	).Scan(&task.ID, &task.CreatedDate)
}

func scanTask(rows interface{ Scan(...any) error }) (models.Task, error) {
	var t models.Task
	var (
		start    sql.NullTime
		finish   sql.NullTime
		assignee sql.NullString
	)
	err := rows.Scan(
		&t.ID, &t.Title, &t.Description, &t.PercentComplete,
		&start, &finish, &t.ProjectID, &assignee, &t.CreatedDate,
	)
	if err != nil {
		return t, err
	}
	if start.Valid {
		v := start.Time
		t.StartDate = &v
	}
	if finish.Valid {
		v := finish.Time
		t.FinishDate = &v
	}
	if assignee.Valid {
		v := assignee.String
		t.AssignedUserID = &v
	}
	return t, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("task find: %w", err)
	}
	return &t, nil
}

func (r *taskRepository) FindAll(ctx context.Context) ([]models.Task, error) {
	return r.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_date DESC`)
}

func (r *taskRepository) FindByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	return r.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE assigned_user_id = $1 ORDER BY created_date DESC`, userID)
}

func (r *taskRepository) FindByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	return r.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY created_date DESC`, projectID)
}

func (r *taskRepository) queryTasks(ctx context.Context, q string, args ...interface{}) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *taskRepository) Filter(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(title) LIKE $%d OR LOWER(description) LIKE $%d)", argID, argID))
		args = append(args, "%"+strings.ToLower(kw)+"%")
		argID++
	}
	switch filter.Status {
	case models.TaskStatusPending:
		conditions = append(conditions, "percent_complete = 0")
	case models.TaskStatusInProgress:
		conditions = append(conditions, "percent_complete > 0 AND percent_complete < 100")
	case models.TaskStatusCompleted:
		conditions = append(conditions, "percent_complete >= 100")
	}
	if filter.ProjectID != nil {
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", argID))
		args = append(args, *filter.ProjectID)
		argID++
	}
	if filter.MinPercent != nil {
		conditions = append(conditions, fmt.Sprintf("percent_complete >= $%d", argID))
		args = append(args, *filter.MinPercent)
		argID++
	}
	if filter.MaxPercent != nil {
		conditions = append(conditions, fmt.Sprintf("percent_complete <= $%d", argID))
		args = append(args, *filter.MaxPercent)
		argID++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("task filter count: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	q := `SELECT ` + taskColumns + ` FROM tasks` + where +
		fmt.Sprintf(" ORDER BY created_date DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, pageSize, (page-1)*pageSize)

	tasks, err := r.queryTasks(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("task filter: %w", err)
	}
	return tasks, total, nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	const q = `
		UPDATE tasks
		SET title=$1, description=$2, percent_complete=$3, start_date=$4,
			finish_date=$5, project_id=$6, assigned_user_id=$7
		WHERE id=$8
	`
	_, err := r.db.ExecContext(ctx, q,
		task.Title, task.Description, task.PercentComplete,
		task.StartDate, task.FinishDate, task.ProjectID, task.AssignedUserID,
		task.ID,
	)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	return err
}

func (r *taskRepository) MarkCompleted(ctx context.Context, id int64, finishedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET percent_complete=100, finish_date=$1 WHERE id=$2`, finishedAt, id)
	return err
}

func (r *taskRepository) CountByStatus(ctx context.Context) (pending, inProgress, completed int, err error) {
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE percent_complete = 0),
			COUNT(*) FILTER (WHERE percent_complete > 0 AND percent_complete < 100),
			COUNT(*) FILTER (WHERE percent_complete >= 100)
		FROM tasks`
	err = r.db.QueryRowContext(ctx, q).Scan(&pending, &inProgress, &completed)
	return
}
