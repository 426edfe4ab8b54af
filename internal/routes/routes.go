package routes

import (
	"github.com/gin-gonic/gin"

	"teamtrack/internal/authz"
	"teamtrack/internal/handlers"
	"teamtrack/internal/middleware"
	"teamtrack/internal/repositories"
	"teamtrack/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	tokens services.TokenService,
	ledger repositories.RevocationLedger,
	authHandler *handlers.AuthHandler,
	accountHandler *handlers.AccountHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	taskHandler *handlers.TaskHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public, throttled per client IP
	public := r.Group("/", middleware.RateLimit(5, 10))
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/confirm-otp", authHandler.ConfirmOtp)
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/forgot-password", authHandler.ForgotPassword)
		public.POST("/auth/reset-password", authHandler.ResetPassword)
		// anonymous: proves OTP possession + current password instead of a token
		public.POST("/account/change-password-with-otp", accountHandler.ChangePasswordWithOtp)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware(tokens, ledger))

	r.GET("/auth/profile", authHandler.GetProfile)
	r.POST("/auth/logout", authHandler.Logout)

	account := r.Group("/account")
	{
		account.POST("/send-otp", accountHandler.SendOtpForPasswordChange)
		account.POST("/verify-password", accountHandler.VerifyPassword)
		account.GET("/profile-details", accountHandler.GetProfileDetails)
	}

	// USERS (Admin)
	users := r.Group("/users", middleware.RequireRoles(authz.RoleAdmin))
	{
		users.POST("/", userHandler.CreateUser)
		users.GET("/", userHandler.SearchUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id/role", userHandler.ChangeRole)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	// PROJECTS
	projects := r.Group("/projects")
	{
		projects.GET("/",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleProjectManager),
			projectHandler.GetProjects)
		projects.GET("/refs", projectHandler.GetProjectRefs)
		projects.GET("/:id", projectHandler.GetProject)
		projects.GET("/managers",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleProjectManager),
			projectHandler.GetProjectManagers)
		projects.POST("/",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleProjectManager),
			projectHandler.CreateProject)
		projects.DELETE("/:id",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleProjectManager),
			projectHandler.DeleteProject)
	}

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.GET("/",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleProjectManager),
			taskHandler.GetTasks)
		tasks.GET("/my", taskHandler.GetMyTasks)
		tasks.GET("/filter", taskHandler.FilterTasks)
		tasks.GET("/project/:project_id", taskHandler.GetTasksByProject)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.POST("/:id/complete", taskHandler.CompleteTask)
		tasks.POST("/",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleProjectManager),
			taskHandler.CreateTask)
		tasks.PUT("/:id",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleProjectManager),
			taskHandler.UpdateTask)
		tasks.DELETE("/:id",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleProjectManager),
			taskHandler.DeleteTask)
	}

	// REPORTS (Admin)
	reports := r.Group("/reports", middleware.RequireRoles(authz.RoleAdmin))
	{
		reports.GET("/summary", reportHandler.GetSummary)
		reports.GET("/summary/pdf", reportHandler.GetSummaryPDF)
	}

	return r
}
