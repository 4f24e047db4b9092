// Package rest exposes the auth API over HTTP/JSON using gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/rentscope/internal/logging"
	"github.com/dmitrijs2005/rentscope/internal/server/auth"
	"github.com/dmitrijs2005/rentscope/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 100 << 10
)

// UserService is the business layer the handlers and the gate depend on.
type UserService interface {
	Register(ctx context.Context, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Identify(ctx context.Context, token string) (*auth.Identity, error)
	Logout(ctx context.Context, id *auth.Identity) error
	RevocationEnabled() bool
}

type HTTPServer struct {
	address        string
	users          UserService
	logger         logging.Logger
	allowedOrigins []string
}

func NewHTTPServer(a string, l logging.Logger, us UserService, allowedOrigins []string) *HTTPServer {
	return &HTTPServer{
		address:        a,
		logger:         l.With("module", "http_server"),
		users:          us,
		allowedOrigins: allowedOrigins,
	}
}

// Router builds the gin engine with middleware and routes.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(s.accessLog(), s.recovery(), s.cors(), s.limitBody())

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/auth/signup", s.signup)
		api.POST("/auth/login", s.login)
		api.GET("/me", s.authGate(), s.me)
		if s.users.RevocationEnabled() {
			api.POST("/auth/logout", s.authGate(), s.logout)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
