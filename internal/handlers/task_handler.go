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

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return 0, false
	}
	return id, true
}

// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        task  body      models.CreateTaskRequest  true  "Task data"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Project not found."})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Assigned user not found."})
		default:
			log.Printf("[tasks][create] service error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		}
		return
	}
	c.JSON(http.StatusCreated, task)
}

// @Summary      List all tasks
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Task
// @Router       /tasks [get]
func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskService.GetAll(c.Request.Context())
	if err != nil {
		log.Printf("[tasks][list] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Get a task by id
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[tasks][get] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found."})
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Tasks of a project
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      int  true  "Project ID"
// @Success      200         {array}   models.Task
// @Router       /tasks/project/{project_id} [get]
func (h *TaskHandler) GetTasksByProject(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("project_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}

	tasks, err := h.taskService.GetByProject(c.Request.Context(), projectID)
	if err != nil {
		log.Printf("[tasks][by-project] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetMyTasks returns the caller's tasks grouped by project.
// @Summary      Tasks of the authenticated user
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  services.ProjectTasks
// @Router       /tasks/my [get]
func (h *TaskHandler) GetMyTasks(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User is not authenticated."})
		return
	}

	groups, err := h.taskService.GetMyTasks(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[tasks][my] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}
	c.JSON(http.StatusOK, groups)
}

// FilterTasks queries tasks by keyword, status, project and completion
// range, paginated.
// @Summary      Filter tasks
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        keyword      query  string   false  "Title or description substring"
// @Param        status       query  string   false  "Pending | In Progress | Completed"
// @Param        project_id   query  int      false  "Project ID"
// @Param        min_percent  query  number   false  "Minimum completion"
// @Param        max_percent  query  number   false  "Maximum completion"
// @Param        page         query  int      false  "Page number, 1-based"
// @Param        page_size    query  int      false  "Page size"
// @Success      200  {object}  map[string]interface{}
// @Router       /tasks/filter [get]
func (h *TaskHandler) FilterTasks(c *gin.Context) {
	filter := models.TaskFilter{
		Keyword:  c.Query("keyword"),
		Status:   models.TaskStatus(c.Query("status")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if v := c.Query("project_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
			return
		}
		filter.ProjectID = &id
	}
	if v := c.Query("min_percent"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_percent"})
			return
		}
		filter.MinPercent = &p
	}
	if v := c.Query("max_percent"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_percent"})
			return
		}
		filter.MaxPercent = &p
	}

	tasks, total, err := h.taskService.Filter(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[tasks][filter] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Filter failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": total,
		"page":  filter.Page,
	})
}

// @Summary      Update a task
// @Description  Only the fields present in the body are changed
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Task ID"
// @Param        task  body      models.TaskUpdate  true  "Fields to change"
// @Success      200   {object}  models.Task
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var update models.TaskUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found."})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Assigned user not found."})
		default:
			log.Printf("[tasks][update] service error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		}
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Delete a task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found."})
			return
		}
		log.Printf("[tasks][delete] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully."})
}

// CompleteTask marks the task done and notifies its project manager.
// @Summary      Complete a task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Complete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found."})
			return
		}
		log.Printf("[tasks][complete] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task"})
		return
	}
	c.JSON(http.StatusOK, task)
}
