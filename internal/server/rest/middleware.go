package rest

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/rentscope/internal/common"
	"github.com/dmitrijs2005/rentscope/internal/server/auth"
	"github.com/gin-gonic/gin"
)

type ctxKey string

const identityKey ctxKey = "identity"

// IdentityFromContext returns the identity the gate attached to ctx.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*auth.Identity)
	return id, ok
}

func bearerToken(header string) string {
	token, ok := strings.CutPrefix(header, common.BearerScheme)
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// authGate admits requests carrying a valid bearer token. A missing token is
// rejected without consulting the token service.
func (s *HTTPServer) authGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if token == "" {
			s.writeError(c, common.ErrorUnauthorized)
			return
		}

		id, err := s.users.Identify(c.Request.Context(), token)
		if err != nil {
			s.writeError(c, err)
			return
		}

		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), identityKey, id))
		c.Next()
	}
}

// cors reflects allowed origins. An empty allow-list allows every origin.
func (s *HTTPServer) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (len(s.allowedOrigins) == 0 || slices.Contains(s.allowedOrigins, origin)) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// limitBody caps request bodies at maxBodyBytes. Oversized bodies surface as
// *http.MaxBytesError from the JSON binder.
func (s *HTTPServer) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBodyBytes {
			s.writeError(c, &http.MaxBytesError{Limit: maxBodyBytes})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	}
}

func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func (s *HTTPServer) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		s.logger.Error(c.Request.Context(), "panic in handler", "panic", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	})
}
