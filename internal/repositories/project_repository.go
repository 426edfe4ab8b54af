package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"teamtrack/internal/models"
)

type ProjectRepository interface {
	Store(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	FindAll(ctx context.Context) ([]models.Project, error)
	ListRefs(ctx context.Context) ([]models.ProjectRef, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Store(ctx context.Context, project *models.Project) error {
	const q = `
		INSERT INTO projects (name, description, project_manager_id, created_date)
		VALUES ($1,$2,$3,NOW())
		RETURNING id, created_date`
	return r.db.QueryRowContext(ctx, q,
		project.Name, project.Description, project.ProjectManagerID,
	).Scan(&project.ID, &project.CreatedDate)
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	const q = `SELECT id, name, description, project_manager_id, created_date FROM projects WHERE id = $1`
	p := &models.Project{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.ProjectManagerID, &p.CreatedDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("project find: %w", err)
	}
	return p, nil
}

func (r *projectRepository) FindAll(ctx context.Context) ([]models.Project, error) {
	const q = `SELECT id, name, description, project_manager_id, created_date
		FROM projects ORDER BY created_date DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.ProjectManagerID, &p.CreatedDate); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *projectRepository) ListRefs(ctx context.Context) ([]models.ProjectRef, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.ProjectRef
	for rows.Next() {
		var ref models.ProjectRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		res = append(res, ref)
	}
	return res, rows.Err()
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id=$1`, id)
	return err
}

func (r *projectRepository) Count(ctx context.Context) (int, error) {
	var c int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&c)
	return c, err
}
