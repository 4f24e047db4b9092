package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/rentscope/internal/common"
	"github.com/dmitrijs2005/rentscope/internal/server/services"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to an HTTP status and client message.
func statusFor(err error) (int, string) {
	var ve *services.ValidationError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge, "Payload too large"
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Reason
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Server error"
	}
}

func (s *HTTPServer) writeError(c *gin.Context, err error) {
	code, msg := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
