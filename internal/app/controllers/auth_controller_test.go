package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/kerem/thesisdesk/internal/app/models/dto"
	"github.com/kerem/thesisdesk/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAuthService returns canned results for controller tests
type stubAuthService struct {
	signupErr error
	loginResp *dto.LoginResponse
	loginErr  error
	logoutErr error
}

func (s *stubAuthService) Signup(ctx context.Context, req *dto.SignupRequest) error {
	return s.signupErr
}

func (s *stubAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.logoutErr
}

func newAuthRouter(svc *stubAuthService) *gin.Engine {
	controller := NewAuthController(svc, zerolog.Nop())
	router := gin.New()
	router.POST("/auth/signup", controller.Signup)
	router.POST("/auth/login", controller.Login)
	router.POST("/auth/refresh", controller.Refresh)
	router.POST("/auth/logout", controller.Logout)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSignupSuccess(t *testing.T) {
	router := newAuthRouter(&stubAuthService{})

	w := postJSON(router, "/auth/signup", `{"username":"bob","email":"bob@x.com","password":"pw123","role":"student"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User created successfully"}`, w.Body.String())
}

func TestSignupMissingFields(t *testing.T) {
	router := newAuthRouter(&stubAuthService{})

	w := postJSON(router, "/auth/signup", `{"username":"bob"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupDuplicate(t *testing.T) {
	router := newAuthRouter(&stubAuthService{signupErr: apperrors.ErrEmailAlreadyExists})

	w := postJSON(router, "/auth/signup", `{"username":"bob","email":"bob@x.com","password":"pw123"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"User with this email or username already exists"}`, w.Body.String())
}

func TestLoginSuccess(t *testing.T) {
	router := newAuthRouter(&stubAuthService{loginResp: &dto.LoginResponse{
		Message:      "Login successful",
		Token:        "jwt-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    3600,
		Role:         "STUDENT",
		Username:     "bob",
		UserID:       7,
	}})

	w := postJSON(router, "/auth/login", `{"email":"bob@x.com","password":"pw123"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"jwt-token"`)
	assert.Contains(t, w.Body.String(), `"userId":7`)
}

func TestLoginBadCredentials(t *testing.T) {
	router := newAuthRouter(&stubAuthService{loginErr: apperrors.ErrInvalidCredentials})

	w := postJSON(router, "/auth/login", `{"email":"bob@x.com","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, w.Body.String())
}

func TestRefreshExpired(t *testing.T) {
	router := newAuthRouter(&stubAuthService{loginErr: apperrors.ErrTokenExpired})

	w := postJSON(router, "/auth/refresh", `{"refreshToken":"stale"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutWithoutBody(t *testing.T) {
	router := newAuthRouter(&stubAuthService{})

	w := postJSON(router, "/auth/logout", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully"}`, w.Body.String())
}
