package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"github.com/yukikurage/task-review-api/internal/middleware"
	"github.com/yukikurage/task-review-api/internal/services"
)

// Services bundles everything the HTTP layer calls into
type Services struct {
	Auth        *services.AuthService
	Users       *services.UserService
	Tasks       *services.TaskService
	Submissions *services.SubmissionService
	Comments    *services.CommentService
}

// RegisterRoutes mounts the health check and the /api surface on r
func RegisterRoutes(r *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	taskHandler := NewTaskHandler(svc.Tasks)
	submissionHandler := NewSubmissionHandler(svc.Submissions, svc.Comments)

	requireAuth := middleware.RequireAuth(svc.Auth)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Review API is running",
		})
	})

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "")
	})

	api := r.Group("/api")
	{
		// Auth routes (sign up and sign in are public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.SignUp)
			auth.POST("/signin", authHandler.SignIn)
			auth.POST("/logout", requireAuth, authHandler.Logout)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListAllTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/visible", taskHandler.ListVisibleTasks)
			tasks.GET("/assigned/:user_id", taskHandler.ListAssignedTasks)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", middleware.RequireTaskAccess(svc.Tasks), taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/assign", taskHandler.AssignTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
			tasks.GET("/:id/history", taskHandler.TaskHistory)
			tasks.GET("/:id/submissions", submissionHandler.ListTaskSubmissions)
			tasks.POST("/:id/submissions", submissionHandler.Submit)
		}

		submissions := api.Group("/submissions")
		submissions.Use(requireAuth)
		{
			submissions.GET("", submissionHandler.ListSubmissions)
			submissions.GET("/:id", submissionHandler.GetSubmission)
			submissions.POST("/:id/review", submissionHandler.ReviewSubmission)
			submissions.GET("/:id/comments", submissionHandler.ListComments)
			submissions.POST("/:id/comments", submissionHandler.AddComment)
		}
	}
}
