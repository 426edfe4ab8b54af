package models

import "time"

type Project struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	ProjectManagerID string    `json:"project_manager_id"`
	CreatedDate      time.Time `json:"created_date"`
}

type ProjectRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CreateProjectRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	ProjectManagerID string `json:"project_manager_id" binding:"required"`
}
