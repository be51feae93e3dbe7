package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kerem/thesisdesk/internal/app/models/dto"
	"github.com/kerem/thesisdesk/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP status codes with a message body
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	message := err.Error()
	if errors.As(err, &customErr) {
		message = customErr.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewMessage(message))

	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrUsernameAlreadyExists):
		c.JSON(http.StatusBadRequest, dto.NewMessage("User with this email or username already exists"))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewMessage("Invalid credentials"))

	case errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenNotFound),
		errors.Is(err, apperrors.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, dto.NewMessage(message))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewMessage("Access denied"))

	case errors.Is(err, apperrors.ErrThesisAlreadyRequested):
		c.JSON(http.StatusConflict, dto.NewMessage("Thesis has already been requested"))

	case errors.Is(err, apperrors.ErrThesisNotRequested),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewMessage(message))

	case errors.Is(err, apperrors.ErrUnsupportedFileType),
		errors.Is(err, apperrors.ErrFileMissing):
		c.JSON(http.StatusBadRequest, dto.NewMessage(message))

	case errors.Is(err, apperrors.ErrThesisNotFound):
		c.JSON(http.StatusNotFound, dto.NewMessage("Thesis not found"))

	case errors.Is(err, apperrors.ErrSubtaskNotFound):
		c.JSON(http.StatusNotFound, dto.NewMessage("Subtask not found"))

	case errors.Is(err, apperrors.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.NewMessage("User not found"))

	case errors.Is(err, apperrors.ErrThesisNotAssigned):
		c.JSON(http.StatusNotFound, dto.NewMessage("Thesis not found"))

	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewMessage(message))

	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.NewMessage("Internal server error"))
	}
}
