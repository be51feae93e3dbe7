package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kerem/thesisdesk/internal/app/models/dto"
	"github.com/kerem/thesisdesk/internal/app/services"
	"github.com/kerem/thesisdesk/internal/middleware"
)

// parseIDParam parses an ID parameter from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	idStr := ctx.Param(paramName)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s: %s", paramName, idStr)
	}
	return id, nil
}

// ThesisController handles thesis lifecycle operations
type ThesisController struct {
	thesisService services.ThesisService
	logger        zerolog.Logger
}

// NewThesisController creates a new ThesisController
func NewThesisController(thesisService services.ThesisService, logger zerolog.Logger) *ThesisController {
	return &ThesisController{
		thesisService: thesisService,
		logger:        logger,
	}
}

// Add handles thesis creation by a teacher
func (c *ThesisController) Add(ctx *gin.Context) {
	var req dto.AddThesisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid add thesis payload")
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Title, description and due dates are required"))
		return
	}

	teacherID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewMessage("Unauthorized"))
		return
	}

	thesis, err := c.thesisService.Add(ctx.Request.Context(), teacherID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.AddThesisResponse{
		Message: "Thesis added successfully",
		Thesis:  *thesis,
	})
}

// ListAll returns every thesis (teacher view)
func (c *ThesisController) ListAll(ctx *gin.Context) {
	theses, err := c.thesisService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, theses)
}

// ListUnassigned returns theses that can still be requested
func (c *ThesisController) ListUnassigned(ctx *gin.Context) {
	theses, err := c.thesisService.ListUnassigned(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, theses)
}

// Request handles a student claiming a thesis
func (c *ThesisController) Request(ctx *gin.Context) {
	var req dto.RequestThesisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Thesis ID is required"))
		return
	}

	studentID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewMessage("Unauthorized"))
		return
	}

	thesis, err := c.thesisService.Request(ctx.Request.Context(), studentID, req.ThesisID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ThesisActionResponse{
		Message: "Thesis requested successfully",
		Thesis:  *thesis,
	})
}

// ListPendingApproval returns requested but unapproved theses
func (c *ThesisController) ListPendingApproval(ctx *gin.Context) {
	requests, err := c.thesisService.ListPendingApproval(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, requests)
}

// Approve handles a teacher approving a pending request
func (c *ThesisController) Approve(ctx *gin.Context) {
	var req dto.ApproveThesisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Thesis ID and student ID are required"))
		return
	}

	thesis, err := c.thesisService.Approve(ctx.Request.Context(), req.ThesisID, req.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ThesisActionResponse{
		Message: "Thesis approved successfully",
		Thesis:  *thesis,
	})
}

// UpdateDueDates handles a teacher editing both due dates
func (c *ThesisController) UpdateDueDates(ctx *gin.Context) {
	thesisID, err := parseIDParam(ctx, "thesisId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Invalid thesis ID"))
		return
	}

	var req dto.DueDatesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Both due dates are required"))
		return
	}

	thesis, err := c.thesisService.UpdateDueDates(ctx.Request.Context(), thesisID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ThesisActionResponse{
		Message: "Due dates updated successfully",
		Thesis:  *thesis,
	})
}

// Delete removes a thesis with its subtasks, feedback and files
func (c *ThesisController) Delete(ctx *gin.Context) {
	thesisID, err := parseIDParam(ctx, "thesisId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Invalid thesis ID"))
		return
	}

	if err := c.thesisService.Delete(ctx.Request.Context(), thesisID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessage("Thesis deleted successfully"))
}

// ListByStudent returns the caller's theses with feedback and subtasks
func (c *ThesisController) ListByStudent(ctx *gin.Context) {
	studentID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewMessage("Unauthorized"))
		return
	}

	theses, err := c.thesisService.ListByStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, theses)
}

// Details returns the detail view of a single thesis
func (c *ThesisController) Details(ctx *gin.Context) {
	thesisID, err := parseIDParam(ctx, "thesisId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Invalid thesis ID"))
		return
	}

	details, err := c.thesisService.Details(ctx.Request.Context(), thesisID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, details)
}

// Subtasks lists the subtasks of a thesis
func (c *ThesisController) Subtasks(ctx *gin.Context) {
	thesisID, err := parseIDParam(ctx, "thesisId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Invalid thesis ID"))
		return
	}

	subtasks, err := c.thesisService.Subtasks(ctx.Request.Context(), thesisID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subtasks)
}

// UploadThesis stores the submission file for the caller's thesis
func (c *ThesisController) UploadThesis(ctx *gin.Context) {
	studentID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewMessage("Unauthorized"))
		return
	}

	thesisIDStr := ctx.PostForm("thesisId")
	thesisID, err := strconv.ParseInt(thesisIDStr, 10, 64)
	if err != nil || thesisID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Invalid thesis ID"))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("File is required"))
		return
	}

	resp, err := c.thesisService.UploadThesis(ctx.Request.Context(), studentID, thesisID, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UploadSubtask stores a file for a subtask of the caller's thesis
func (c *ThesisController) UploadSubtask(ctx *gin.Context) {
	studentID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewMessage("Unauthorized"))
		return
	}

	subtaskID, err := parseIDParam(ctx, "subtaskId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("Invalid subtask ID"))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewMessage("File is required"))
		return
	}

	resp, err := c.thesisService.UploadSubtask(ctx.Request.Context(), studentID, subtaskID, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
