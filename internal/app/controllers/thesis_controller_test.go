package controllers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/thesisdesk/internal/app/models/dto"
	"github.com/kerem/thesisdesk/internal/middleware"
	"github.com/kerem/thesisdesk/internal/pkg/apperrors"
	"github.com/kerem/thesisdesk/internal/pkg/filestorage"
)

// stubThesisService records calls and returns canned results
type stubThesisService struct {
	thesis        *dto.ThesisResponse
	theses        []dto.ThesisResponse
	requests      []dto.ApprovalRequestResponse
	details       *dto.ThesisDetailsResponse
	subtasks      []dto.SubtaskResponse
	upload        *dto.UploadResponse
	subtaskUpload *dto.SubtaskUploadResponse
	err           error

	gotTeacherID int64
	gotStudentID int64
	gotThesisID  int64
}

func (s *stubThesisService) Add(ctx context.Context, teacherID int64, req *dto.AddThesisRequest) (*dto.ThesisResponse, error) {
	s.gotTeacherID = teacherID
	return s.thesis, s.err
}

func (s *stubThesisService) ListAll(ctx context.Context) ([]dto.ThesisResponse, error) {
	return s.theses, s.err
}

func (s *stubThesisService) ListUnassigned(ctx context.Context) ([]dto.ThesisResponse, error) {
	return s.theses, s.err
}

func (s *stubThesisService) Request(ctx context.Context, studentID, thesisID int64) (*dto.ThesisResponse, error) {
	s.gotStudentID = studentID
	s.gotThesisID = thesisID
	return s.thesis, s.err
}

func (s *stubThesisService) ListPendingApproval(ctx context.Context) ([]dto.ApprovalRequestResponse, error) {
	return s.requests, s.err
}

func (s *stubThesisService) Approve(ctx context.Context, thesisID, studentID int64) (*dto.ThesisResponse, error) {
	s.gotThesisID = thesisID
	s.gotStudentID = studentID
	return s.thesis, s.err
}

func (s *stubThesisService) UpdateDueDates(ctx context.Context, thesisID int64, req *dto.DueDatesRequest) (*dto.ThesisResponse, error) {
	s.gotThesisID = thesisID
	return s.thesis, s.err
}

func (s *stubThesisService) Delete(ctx context.Context, thesisID int64) error {
	s.gotThesisID = thesisID
	return s.err
}

func (s *stubThesisService) ListByStudent(ctx context.Context, studentID int64) ([]dto.ThesisResponse, error) {
	s.gotStudentID = studentID
	return s.theses, s.err
}

func (s *stubThesisService) Details(ctx context.Context, thesisID int64) (*dto.ThesisDetailsResponse, error) {
	s.gotThesisID = thesisID
	return s.details, s.err
}

func (s *stubThesisService) Subtasks(ctx context.Context, thesisID int64) ([]dto.SubtaskResponse, error) {
	s.gotThesisID = thesisID
	return s.subtasks, s.err
}

func (s *stubThesisService) UploadThesis(ctx context.Context, studentID, thesisID int64, fileHeader *multipart.FileHeader) (*dto.UploadResponse, error) {
	s.gotStudentID = studentID
	s.gotThesisID = thesisID
	return s.upload, s.err
}

func (s *stubThesisService) UploadSubtask(ctx context.Context, studentID, subtaskID int64, fileHeader *multipart.FileHeader) (*dto.SubtaskUploadResponse, error) {
	s.gotStudentID = studentID
	s.gotThesisID = subtaskID
	return s.subtaskUpload, s.err
}

// asUser injects an authenticated identity like JWTAuth would
func asUser(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Set(middleware.ContextRoleKey, role)
		c.Next()
	}
}

func newThesisRouter(svc *stubThesisService, userID int64, role string) *gin.Engine {
	controller := NewThesisController(svc, zerolog.Nop())
	router := gin.New()
	router.Use(asUser(userID, role))

	router.POST("/thesis/add", controller.Add)
	router.GET("/thesis/view", controller.ListAll)
	router.GET("/thesis/unassigned", controller.ListUnassigned)
	router.POST("/thesis/request", controller.Request)
	router.GET("/thesis/requests-for-approval", controller.ListPendingApproval)
	router.POST("/thesis/approve", controller.Approve)
	router.PUT("/thesis/:thesisId/due-dates", controller.UpdateDueDates)
	router.DELETE("/thesis/:thesisId", controller.Delete)
	router.GET("/thesis/student", controller.ListByStudent)
	router.GET("/thesis/:thesisId/details", controller.Details)
	router.GET("/:thesisId/subtasks", controller.Subtasks)
	router.POST("/upload-thesis", controller.UploadThesis)
	router.POST("/subtask/:subtaskId/upload", controller.UploadSubtask)
	return router
}

func sampleThesis() *dto.ThesisResponse {
	return &dto.ThesisResponse{
		ID:             1,
		Title:          "T1",
		Description:    "d",
		RequestDueDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ThesisDueDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		AddedBy:        3,
	}
}

func TestAddThesis(t *testing.T) {
	svc := &stubThesisService{thesis: sampleThesis()}
	router := newThesisRouter(svc, 3, "TEACHER")

	w := postJSON(router, "/thesis/add",
		`{"title":"T1","description":"d","requestDueDate":"2025-01-01","thesisDueDate":"2025-06-01","subtasks":[]}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(3), svc.gotTeacherID)
	assert.Contains(t, w.Body.String(), `"message":"Thesis added successfully"`)
}

func TestAddThesisMissingTitle(t *testing.T) {
	router := newThesisRouter(&stubThesisService{}, 3, "TEACHER")

	w := postJSON(router, "/thesis/add", `{"description":"d"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestThesis(t *testing.T) {
	svc := &stubThesisService{thesis: sampleThesis()}
	router := newThesisRouter(svc, 7, "STUDENT")

	w := postJSON(router, "/thesis/request", `{"thesisId":1}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), svc.gotStudentID)
	assert.Equal(t, int64(1), svc.gotThesisID)
}

func TestRequestThesisConflict(t *testing.T) {
	svc := &stubThesisService{err: apperrors.ErrThesisAlreadyRequested}
	router := newThesisRouter(svc, 7, "STUDENT")

	w := postJSON(router, "/thesis/request", `{"thesisId":1}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"message":"Thesis has already been requested"}`, w.Body.String())
}

func TestApproveThesis(t *testing.T) {
	svc := &stubThesisService{thesis: sampleThesis()}
	router := newThesisRouter(svc, 3, "TEACHER")

	w := postJSON(router, "/thesis/approve", `{"thesisId":1,"studentId":7}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), svc.gotThesisID)
	assert.Equal(t, int64(7), svc.gotStudentID)
}

func TestUpdateDueDates(t *testing.T) {
	svc := &stubThesisService{thesis: sampleThesis()}
	router := newThesisRouter(svc, 3, "TEACHER")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/thesis/1/due-dates",
		bytes.NewReader([]byte(`{"requestDueDate":"2025-02-01","thesisDueDate":"2025-07-01"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), svc.gotThesisID)
}

func TestUpdateDueDatesBadID(t *testing.T) {
	router := newThesisRouter(&stubThesisService{}, 3, "TEACHER")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/thesis/abc/due-dates",
		bytes.NewReader([]byte(`{"requestDueDate":"2025-02-01","thesisDueDate":"2025-07-01"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteThesis(t *testing.T) {
	svc := &stubThesisService{}
	router := newThesisRouter(svc, 3, "TEACHER")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/thesis/5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), svc.gotThesisID)
	assert.JSONEq(t, `{"message":"Thesis deleted successfully"}`, w.Body.String())
}

func TestDetailsNotFound(t *testing.T) {
	svc := &stubThesisService{err: apperrors.ErrThesisNotFound}
	router := newThesisRouter(svc, 7, "STUDENT")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/thesis/99/details", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Thesis not found"}`, w.Body.String())
}

func TestSubtasksList(t *testing.T) {
	svc := &stubThesisService{subtasks: []dto.SubtaskResponse{{ID: 1, Week: 1, Description: "w1"}}}
	router := newThesisRouter(svc, 7, "STUDENT")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/4/subtasks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), svc.gotThesisID)
	assert.Contains(t, w.Body.String(), `"week":1`)
}

// multipartUpload builds a multipart request body holding a file part and
// optional extra form fields
func multipartUpload(t *testing.T, fileName, contentType string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestUploadThesis(t *testing.T) {
	svc := &stubThesisService{upload: &dto.UploadResponse{
		Message:  "Thesis uploaded successfully",
		FileLink: "/thesis/files/thesis_7_1.pdf",
	}}
	router := newThesisRouter(svc, 7, "STUDENT")

	body, contentType := multipartUpload(t, "draft.pdf", filestorage.MimePDF, map[string]string{"thesisId": "1"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload-thesis", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), svc.gotStudentID)
	assert.Equal(t, int64(1), svc.gotThesisID)
	assert.Contains(t, w.Body.String(), "thesis_7_1.pdf")
}

func TestUploadThesisMissingFile(t *testing.T) {
	router := newThesisRouter(&stubThesisService{}, 7, "STUDENT")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("thesisId", "1"))
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload-thesis", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"File is required"}`, w.Body.String())
}

func TestUploadThesisUnsupportedType(t *testing.T) {
	svc := &stubThesisService{err: apperrors.ErrUnsupportedFileType}
	router := newThesisRouter(svc, 7, "STUDENT")

	body, contentType := multipartUpload(t, "draft.png", "image/png", map[string]string{"thesisId": "1"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload-thesis", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadSubtask(t *testing.T) {
	svc := &stubThesisService{subtaskUpload: &dto.SubtaskUploadResponse{
		Message: "File uploaded successfully",
		Subtask: dto.SubtaskResponse{ID: 9, Week: 2, Submitted: true},
	}}
	router := newThesisRouter(svc, 7, "STUDENT")

	body, contentType := multipartUpload(t, "week2.pdf", filestorage.MimePDF, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/subtask/9/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(9), svc.gotThesisID)
	assert.Contains(t, w.Body.String(), `"submitted":true`)
}
