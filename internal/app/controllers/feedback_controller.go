package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kerem/thesisdesk/internal/app/models/dto"
	"github.com/kerem/thesisdesk/internal/app/services"
	"github.com/kerem/thesisdesk/internal/middleware"
)

// FeedbackController handles thesis feedback operations
type FeedbackController struct {
	feedbackService services.FeedbackService
	logger          zerolog.Logger
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService services.FeedbackService, logger zerolog.Logger) *FeedbackController {
	return &FeedbackController{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// Add attaches a feedback entry to a thesis
func (c *FeedbackController) Add(ctx *gin.Context) {
	thesisID, err := parseIDParam(ctx, "thesisId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Invalid thesis ID"))
		return
	}

	var req dto.AddFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Content is required"))
		return
	}

	authorID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewMessage("Unauthorized"))
		return
	}

	feedback, err := c.feedbackService.Add(ctx.Request.Context(), thesisID, authorID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.AddFeedbackResponse{
		Message:  "Feedback added successfully",
		Feedback: *feedback,
	})
}

// List returns the feedback entries of a thesis, oldest first
func (c *FeedbackController) List(ctx *gin.Context) {
	thesisID, err := parseIDParam(ctx, "thesisId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Invalid thesis ID"))
		return
	}

	feedbacks, err := c.feedbackService.List(ctx.Request.Context(), thesisID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, feedbacks)
}
