package dto

import "time"

// SubtaskInput is a weekly work item supplied when a thesis is created
type SubtaskInput struct {
	Week        int    `json:"week" binding:"required,min=1"`
	Description string `json:"description" binding:"required"`
}

// AddThesisRequest represents a teacher creating a thesis title
type AddThesisRequest struct {
	Title          string         `json:"title" binding:"required"`
	Description    string         `json:"description" binding:"required"`
	RequestDueDate string         `json:"requestDueDate" binding:"required"`
	ThesisDueDate  string         `json:"thesisDueDate" binding:"required"`
	Subtasks       []SubtaskInput `json:"subtasks"`
}

// RequestThesisRequest represents a student claiming an unassigned thesis
type RequestThesisRequest struct {
	ThesisID int64 `json:"thesisId" binding:"required,min=1"`
}

// ApproveThesisRequest represents a teacher approving a pending request
type ApproveThesisRequest struct {
	ThesisID  int64 `json:"thesisId" binding:"required,min=1"`
	StudentID int64 `json:"studentId" binding:"required,min=1"`
}

// DueDatesRequest represents a due-date edit; both dates are required
type DueDatesRequest struct {
	RequestDueDate string `json:"requestDueDate" binding:"required"`
	ThesisDueDate  string `json:"thesisDueDate" binding:"required"`
}

// SubtaskResponse is a subtask as returned by list and detail endpoints
type SubtaskResponse struct {
	ID          int64   `json:"id"`
	Week        int     `json:"week"`
	Description string  `json:"description"`
	FileName    *string `json:"fileName,omitempty"`
	Submitted   bool    `json:"submitted"`
}

// ThesisResponse is the full thesis representation, with optional
// assignment, subtask and feedback expansions depending on the endpoint.
type ThesisResponse struct {
	ID             int64              `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	RequestDueDate time.Time          `json:"requestDueDate"`
	ThesisDueDate  time.Time          `json:"thesisDueDate"`
	AddedBy        int64              `json:"addedBy"`
	RequestedBy    *int64             `json:"requestedBy"`
	Approved       bool               `json:"approved"`
	Submitted      bool               `json:"submitted"`
	FileName       *string            `json:"fileName"`
	LastUpdate     *time.Time         `json:"lastUpdate"`
	StudentName    *string            `json:"studentName,omitempty"`
	Subtasks       []SubtaskResponse  `json:"subtasks,omitempty"`
	Feedbacks      []FeedbackResponse `json:"feedbacks,omitempty"`
}

// ThesisDetailsResponse is the single-thesis detail view
type ThesisDetailsResponse struct {
	Title       string            `json:"title"`
	StudentName *string           `json:"studentName"`
	LastUpdate  *time.Time        `json:"lastUpdate"`
	Submitted   bool              `json:"submitted"`
	FileName    *string           `json:"fileName"`
	Subtasks    []SubtaskResponse `json:"subtasks"`
}

// ApprovalRequestResponse is one entry in the teacher's pending-approval list
type ApprovalRequestResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StudentName string `json:"studentName"`
	Approved    bool   `json:"approved"`
	RequestedBy *int64 `json:"requestedBy"`
}

// AddThesisResponse acknowledges thesis creation
type AddThesisResponse struct {
	Message string         `json:"message"`
	Thesis  ThesisResponse `json:"thesis"`
}

// ThesisActionResponse acknowledges a state transition on a thesis
type ThesisActionResponse struct {
	Message string         `json:"message"`
	Thesis  ThesisResponse `json:"thesis"`
}

// UploadResponse acknowledges a stored file
type UploadResponse struct {
	Message  string `json:"message"`
	FileLink string `json:"fileLink"`
}

// SubtaskUploadResponse acknowledges a stored subtask file
type SubtaskUploadResponse struct {
	Message string          `json:"message"`
	Subtask SubtaskResponse `json:"subtask"`
}
