package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamtrack/internal/models"
	"teamtrack/internal/services"
)

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// @Summary      Create a project
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project  body      models.CreateProjectRequest  true  "Project data"
// @Success      201      {object}  models.Project
// @Failure      400      {object}  map[string]string
// @Router       /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Project manager not found."})
			return
		}
		log.Printf("[projects][create] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, project)
}

// @Summary      List all projects
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Project
// @Router       /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	projects, err := h.projectService.GetAll(c.Request.Context())
	if err != nil {
		log.Printf("[projects][list] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

// @Summary      Get a project by id
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  models.Project
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[projects][get] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found."})
		return
	}
	c.JSON(http.StatusOK, project)
}

// GetProjectRefs serves the lightweight id+name list used by dropdowns.
// @Summary      List project references
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.ProjectRef
// @Router       /projects/refs [get]
func (h *ProjectHandler) GetProjectRefs(c *gin.Context) {
	refs, err := h.projectService.ListRefs(c.Request.Context())
	if err != nil {
		log.Printf("[projects][refs] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects"})
		return
	}
	c.JSON(http.StatusOK, refs)
}

// @Summary      List project managers
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.PublicUser
// @Router       /projects/managers [get]
func (h *ProjectHandler) GetProjectManagers(c *gin.Context) {
	managers, err := h.projectService.ListProjectManagers(c.Request.Context())
	if err != nil {
		log.Printf("[projects][managers] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load managers"})
		return
	}

	public := make([]models.PublicUser, 0, len(managers))
	for _, m := range managers {
		public = append(public, m.Public())
	}
	c.JSON(http.StatusOK, public)
}

// @Summary      Delete a project
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found."})
			return
		}
		log.Printf("[projects][delete] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully."})
}
