package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhive/internal/handlers"
	"taskhive/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	taskHandler *handlers.TaskHandler,
	commentHandler *handlers.CommentHandler,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// ---- public
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	// ---- protected (AuthMiddleware is installed engine-wide and skips
	// the public paths above)
	v1.GET("/auth/me", authHandler.Me)

	users := v1.Group("/users", middleware.RequireAdmin())
	{
		users.GET("/", userHandler.List)
	}

	projects := v1.Group("/projects")
	{
		projects.GET("/", projectHandler.List)
		projects.POST("/", projectHandler.Create)
		projects.GET("/:id", projectHandler.Get)
		projects.PUT("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)
		projects.POST("/:id/archive", projectHandler.Archive)
		projects.GET("/:id/analytics", projectHandler.Analytics)
		projects.GET("/:id/report", projectHandler.Report)
		projects.GET("/:id/activity", projectHandler.Activity)

		projects.GET("/:id/members", projectHandler.ListMembers)
		projects.POST("/:id/members", projectHandler.AddMember)
		projects.DELETE("/:id/members/:user_id", projectHandler.RemoveMember)

		projects.GET("/:id/tasks", taskHandler.List)
		projects.POST("/:id/tasks", taskHandler.Create)
		projects.GET("/:id/tasks/:task_id", taskHandler.Get)
		projects.PUT("/:id/tasks/:task_id", taskHandler.Update)
		projects.DELETE("/:id/tasks/:task_id", taskHandler.Delete)
		projects.POST("/:id/tasks/:task_id/assign", taskHandler.Assign)
	}

	comments := v1.Group("/tasks/:task_id/comments")
	{
		comments.GET("/", commentHandler.List)
		comments.POST("/", commentHandler.Create)
		comments.PUT("/:comment_id", commentHandler.Update)
		comments.DELETE("/:comment_id", commentHandler.Delete)
	}

	return r
}
