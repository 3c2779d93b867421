package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "taskhive/docs"
	"taskhive/internal/authz"
	"taskhive/internal/config"
	"taskhive/internal/handlers"
	"taskhive/internal/jobs"
	"taskhive/internal/middleware"
	"taskhive/internal/pdf"
	"taskhive/internal/repositories"
	"taskhive/internal/routes"
	"taskhive/internal/services"
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
	membershipRepo := repositories.NewMembershipRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	// === Policies ===
	policy := authz.NewPolicy(membershipRepo)

	// === Notifications ===
	queue := jobs.NewQueue(cfg.Jobs.QueueSize)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Email.DryRun,
	)
	telegramService, err := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.DryRun)
	if err != nil {
		log.Printf("telegram disabled: %v", err)
	}
	notifier := jobs.NewNotifier(queue, taskRepo, userRepo, commentRepo, emailService, telegramService, cfg.Jobs.Workers)
	notifier.Start(context.Background())
	defer notifier.Stop()

	// === Services ===
	authService := services.NewAuthService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	userService := services.NewUserService(userRepo, authService)
	projectService := services.NewProjectService(projectRepo, activityRepo, policy)
	membershipService := services.NewMembershipService(membershipRepo, userRepo, policy)
	taskService := services.NewTaskService(taskRepo, membershipRepo, policy)
	assignmentService := services.NewAssignmentService(taskRepo, membershipRepo, queue)
	commentService := services.NewCommentService(commentRepo, activityRepo, policy, queue)
	analyticsService := services.NewAnalyticsService(taskRepo, membershipRepo, activityRepo)

	// === Handlers ===
	reportGen := pdf.NewReportGenerator()
	authHandler := handlers.NewAuthHandler(userService, authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, membershipService, analyticsService, reportGen)
	taskHandler := handlers.NewTaskHandler(taskService, assignmentService, projectRepo, userRepo, policy)
	commentHandler := handlers.NewCommentHandler(commentService, taskRepo)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.RequestID())
	router.Use(middleware.AuthMiddleware(authService, userRepo))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		projectHandler,
		taskHandler,
		commentHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("listening on %s", listenAddr)
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
