package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"teamtrack/internal/config"
	"teamtrack/internal/handlers"
	"teamtrack/internal/obs"
	"teamtrack/internal/pdf"
	"teamtrack/internal/repositories"
	"teamtrack/internal/routes"
	"teamtrack/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "teamtrack/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)

	// the revocation ledger is Redis-backed when configured, otherwise
	// the revoked_tokens table does the job
	var ledger repositories.RevocationLedger
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal("failed to connect to redis: ", err)
		}
		ledger = repositories.NewRedisRevocationLedger(client)
		log.Printf("[app] revocation ledger: redis at %s", cfg.Redis.Addr)
	} else {
		ledger = repositories.NewRevokedTokenRepository(db)
		log.Printf("[app] revocation ledger: postgres")
	}

	// === Services ===
	tokenService := services.NewTokenService(cfg.JWT)
	otpGen := services.NewOtpGenerator()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	var messenger services.Notifier
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		m, err := services.NewMessengerNotifier(cfg.Telegram.BotToken)
		if err != nil {
			// the channel is optional, run without it
			log.Printf("[app] telegram disabled: %v", err)
		} else {
			messenger = m
		}
	}

	authService := services.NewAuthService(userRepo, ledger, tokenService, otpGen, emailService, cfg.OTP)
	userService := services.NewUserService(userRepo, authService, emailService)
	projectService := services.NewProjectService(projectRepo, userRepo)
	notifyService := services.NewNotificationService(userRepo, projectRepo, emailService, messenger)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, notifyService)
	reportService := services.NewReportService(userRepo, projectRepo, taskRepo, pdf.NewReportGenerator())

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService, userService)
	accountHandler := handlers.NewAccountHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService, taskService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	reportHandler := handlers.NewReportHandler(reportService)

	// === Gin ===
	obs.Init()
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger + metrics
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(obs.Handler()))

	routes.SetupRoutes(
		router,
		tokenService,
		ledger,
		authHandler,
		accountHandler,
		userHandler,
		projectHandler,
		taskHandler,
		reportHandler,
	)

	// hourly GC of expired revocation entries; a no-op on Redis where
	// keys expire on their own
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := ledger.PurgeExpired(ctx)
			cancel()
			if err != nil {
				log.Printf("[app][revocation-gc] purge failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[app][revocation-gc] purged %d expired tokens", n)
			}
		}
	}()

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
