package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kerem/thesisdesk/internal/app/controllers"
	"github.com/kerem/thesisdesk/internal/app/models"
	"github.com/kerem/thesisdesk/internal/app/models/dto"
	"github.com/kerem/thesisdesk/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	thesisController *controllers.ThesisController,
	feedbackController *controllers.FeedbackController,
	authMiddleware *middleware.AuthMiddleware,
	storagePath string,
) {
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewMessage("ok"))
	})

	// Uploaded files are served straight from local storage
	router.Static("/thesis/files", storagePath)

	// --- Public auth routes ---
	auth := router.Group("/auth")
	{
		auth.POST("/signup", authController.Signup)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/logout", authController.Logout)
	}

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	teacherOnly := authMiddleware.RoleRequired(string(models.RoleTeacher))
	studentOnly := authMiddleware.RoleRequired(string(models.RoleStudent))

	thesis := authenticated.Group("/thesis")
	{
		thesis.POST("/add", teacherOnly, thesisController.Add)
		thesis.GET("/view", teacherOnly, thesisController.ListAll)
		thesis.GET("/unassigned", studentOnly, thesisController.ListUnassigned)
		thesis.POST("/request", studentOnly, thesisController.Request)
		thesis.GET("/requests-for-approval", teacherOnly, thesisController.ListPendingApproval)
		thesis.POST("/approve", teacherOnly, thesisController.Approve)
		thesis.PUT("/:thesisId/due-dates", teacherOnly, thesisController.UpdateDueDates)
		thesis.DELETE("/:thesisId", teacherOnly, thesisController.Delete)
		thesis.GET("/student", thesisController.ListByStudent)
		thesis.GET("/:thesisId/details", thesisController.Details)
		thesis.POST("/:thesisId/feedbacks", teacherOnly, feedbackController.Add)
		thesis.GET("/:thesisId/feedbacks", feedbackController.List)
	}

	authenticated.POST("/upload-thesis", studentOnly, thesisController.UploadThesis)
	authenticated.GET("/:thesisId/subtasks", thesisController.Subtasks)
	authenticated.POST("/subtask/:subtaskId/upload", studentOnly, thesisController.UploadSubtask)
}
