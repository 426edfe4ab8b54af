package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"teamtrack/internal/authz"
	"teamtrack/internal/models"
	"teamtrack/internal/repositories"
	"teamtrack/internal/services"
)

type UserHandler struct {
	userService services.UserService
	taskService services.TaskService
}

func NewUserHandler(userService services.UserService, taskService services.TaskService) *UserHandler {
	return &UserHandler{userService: userService, taskService: taskService}
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Phone    string `json:"phone"`
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// @Summary      Create a user (admin)
// @Description  The account is active immediately, no OTP round-trip
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user  body      createUserRequest  true  "User data"
// @Success      201   {object}  models.PublicUser
// @Failure      400   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := authz.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role."})
		return
	}

	user, err := h.userService.CreateUser(req.Name, req.Email, req.Password, role, req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered."})
			return
		}
		log.Printf("[users][create] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, user.Public())
}

// @Summary      Get a user by id (admin)
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  models.PublicUser
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Param("id"))
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// SearchUsers filters by free-text term, role and creation-date window.
// @Summary      Search users (admin)
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        term       query  string  false  "Name, email or phone substring"
// @Param        role       query  string  false  "Admin | ProjectManager | TeamMember"
// @Param        from_date  query  string  false  "RFC3339 lower bound on creation date"
// @Param        to_date    query  string  false  "RFC3339 upper bound on creation date"
// @Param        page       query  int     false  "Page number, 1-based"
// @Param        page_size  query  int     false  "Page size"
// @Success      200  {object}  map[string]interface{}
// @Router       /users [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	filter := repositories.UserSearchFilter{
		Term:     c.Query("term"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role, err := authz.ParseRole(roleStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role."})
			return
		}
		filter.Role = &role
	}
	if from := c.Query("from_date"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from_date"})
			return
		}
		filter.FromDate = &t
	}
	if to := c.Query("to_date"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to_date"})
			return
		}
		filter.ToDate = &t
	}

	users, total, err := h.userService.Search(filter)
	if err != nil {
		log.Printf("[users][search] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	// each hit carries the user's assignments so the admin view can show
	// project and task names without extra round-trips
	type userHit struct {
		models.PublicUser
		Assignments []services.ProjectTasks `json:"assignments"`
	}
	hits := make([]userHit, 0, len(users))
	for _, u := range users {
		groups, err := h.taskService.GetMyTasks(c.Request.Context(), u.ID)
		if err != nil {
			log.Printf("[users][search] tasks for %s: %v", u.ID, err)
			groups = nil
		}
		hits = append(hits, userHit{PublicUser: u.Public(), Assignments: groups})
	}
	c.JSON(http.StatusOK, gin.H{
		"users": hits,
		"total": total,
		"page":  filter.Page,
	})
}

// @Summary      Change a user's role (admin)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        role  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := authz.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role."})
		return
	}

	if err := h.userService.ChangeRole(c.Param("id"), role); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		log.Printf("[users][change-role] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully."})
}

// @Summary      Delete a user (admin)
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Param("id")); err != nil {
		log.Printf("[users][delete] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
