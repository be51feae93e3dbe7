package dto

import "time"

// AddFeedbackRequest represents a teacher leaving feedback on a thesis
type AddFeedbackRequest struct {
	Content string `json:"content" binding:"required"`
}

// FeedbackAuthor carries the author's display name
type FeedbackAuthor struct {
	Username string `json:"username"`
}

// FeedbackResponse is a feedback entry annotated with its author
type FeedbackResponse struct {
	ID        int64          `json:"id"`
	Content   string         `json:"content"`
	ThesisID  int64          `json:"thesisId"`
	UserID    int64          `json:"userId"`
	CreatedAt time.Time      `json:"createdAt"`
	Author    FeedbackAuthor `json:"author"`
}

// AddFeedbackResponse acknowledges a stored feedback entry
type AddFeedbackResponse struct {
	Message  string           `json:"message"`
	Feedback FeedbackResponse `json:"feedback"`
}
