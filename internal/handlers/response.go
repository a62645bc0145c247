package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/provadapt/provadapt-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondServiceError maps the service sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message so internals never leak.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrValidation):
		RespondError(c, http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, services.ErrInvalidStatus):
		RespondError(c, http.StatusConflict, "invalid_status", err)
	case errors.Is(err, services.ErrInvalidLogin):
		RespondError(c, http.StatusUnauthorized, "invalid_login", err)
	case errors.Is(err, services.ErrEmailTaken):
		RespondError(c, http.StatusConflict, "email_taken", err)
	case errors.Is(err, services.ErrStorageFailure):
		RespondError(c, http.StatusBadGateway, "storage_failure", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal error"))
	}
}
