package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/kerem/thesisdesk/internal/pkg/apperrors"
)

func performWithError(err error) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/fail", func(c *gin.Context) {
		HandleAPIError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"bad request", apperrors.NewBadRequestError("Invalid thesis due date"), http.StatusBadRequest, `{"message":"Invalid thesis due date"}`},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, `{"message":"User with this email or username already exists"}`},
		{"duplicate username", apperrors.ErrUsernameAlreadyExists, http.StatusBadRequest, `{"message":"User with this email or username already exists"}`},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, `{"message":"Invalid credentials"}`},
		{"forbidden", apperrors.ErrPermissionDenied, http.StatusForbidden, `{"message":"Access denied"}`},
		{"already requested", apperrors.ErrThesisAlreadyRequested, http.StatusConflict, `{"message":"Thesis has already been requested"}`},
		{"thesis not found", apperrors.ErrThesisNotFound, http.StatusNotFound, `{"message":"Thesis not found"}`},
		{"subtask not found", apperrors.ErrSubtaskNotFound, http.StatusNotFound, `{"message":"Subtask not found"}`},
		{"unsupported file", apperrors.ErrUnsupportedFileType, http.StatusBadRequest, `{"message":"unsupported file type"}`},
		{"internal", errors.New("pool exhausted"), http.StatusInternalServerError, `{"message":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performWithError(tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestHandleAPIErrorWrapped(t *testing.T) {
	wrapped := apperrors.NewCustomError(apperrors.ErrThesisNotFound, "Thesis not found")
	w := performWithError(wrapped)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
