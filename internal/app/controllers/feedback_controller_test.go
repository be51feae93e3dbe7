package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/kerem/thesisdesk/internal/app/models/dto"
	"github.com/kerem/thesisdesk/internal/pkg/apperrors"
)

type stubFeedbackService struct {
	feedback  *dto.FeedbackResponse
	feedbacks []dto.FeedbackResponse
	err       error

	gotThesisID int64
	gotAuthorID int64
	gotContent  string
}

func (s *stubFeedbackService) Add(ctx context.Context, thesisID, authorID int64, content string) (*dto.FeedbackResponse, error) {
	s.gotThesisID = thesisID
	s.gotAuthorID = authorID
	s.gotContent = content
	return s.feedback, s.err
}

func (s *stubFeedbackService) List(ctx context.Context, thesisID int64) ([]dto.FeedbackResponse, error) {
	s.gotThesisID = thesisID
	return s.feedbacks, s.err
}

func newFeedbackRouter(svc *stubFeedbackService, userID int64, role string) *gin.Engine {
	controller := NewFeedbackController(svc, zerolog.Nop())
	router := gin.New()
	router.Use(asUser(userID, role))
	router.POST("/thesis/:thesisId/feedbacks", controller.Add)
	router.GET("/thesis/:thesisId/feedbacks", controller.List)
	return router
}

func TestAddFeedback(t *testing.T) {
	svc := &stubFeedbackService{feedback: &dto.FeedbackResponse{
		ID:        1,
		Content:   "looks good",
		ThesisID:  4,
		UserID:    3,
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Author:    dto.FeedbackAuthor{Username: "alice"},
	}}
	router := newFeedbackRouter(svc, 3, "TEACHER")

	w := postJSON(router, "/thesis/4/feedbacks", `{"content":"looks good"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(4), svc.gotThesisID)
	assert.Equal(t, int64(3), svc.gotAuthorID)
	assert.Equal(t, "looks good", svc.gotContent)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}

func TestAddFeedbackEmptyContent(t *testing.T) {
	router := newFeedbackRouter(&stubFeedbackService{}, 3, "TEACHER")

	w := postJSON(router, "/thesis/4/feedbacks", `{"content":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddFeedbackThesisMissing(t *testing.T) {
	router := newFeedbackRouter(&stubFeedbackService{err: apperrors.ErrThesisNotFound}, 3, "TEACHER")

	w := postJSON(router, "/thesis/99/feedbacks", `{"content":"x"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListFeedbacks(t *testing.T) {
	svc := &stubFeedbackService{feedbacks: []dto.FeedbackResponse{
		{ID: 1, Content: "first", ThesisID: 4},
		{ID: 2, Content: "second", ThesisID: 4},
	}}
	router := newFeedbackRouter(svc, 7, "STUDENT")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/thesis/4/feedbacks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), svc.gotThesisID)
	assert.Contains(t, w.Body.String(), `"content":"first"`)
}
