// Package server wires the RentScope API: it validates configuration, opens
// the credential store, builds the auth services and runs the HTTP server
// until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/rentscope/internal/logging"
	"github.com/dmitrijs2005/rentscope/internal/server/auth"
	"github.com/dmitrijs2005/rentscope/internal/server/config"
	"github.com/dmitrijs2005/rentscope/internal/server/password"
	"github.com/dmitrijs2005/rentscope/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rentscope/internal/server/rest"
	"github.com/dmitrijs2005/rentscope/internal/server/revocation"
	"github.com/dmitrijs2005/rentscope/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	redis       *redis.Client
	userService *services.UserService
}

// NewApp fails fast on invalid configuration or an unreachable store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	hasher, err := password.New(c.PasswordHasher, c.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password hasher init error: %w", err)
	}

	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	rm, err := repomanager.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("db migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, repomanager: rm}

	var revoker revocation.Revoker
	if c.RedisAddr != "" {
		rdb, err := revocation.Dial(ctx, c.RedisAddr)
		if err != nil {
			_ = rm.Close(ctx)
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.redis = rdb
		revoker = revocation.NewRedisDenylist(rdb)
	}

	app.userService = services.NewUserService(rm, hasher, tokens, revoker, c, logger)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.config.AllowedOrigins)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled or a termination signal arrives, then
// releases the store and redis connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	gin.SetMode(gin.ReleaseMode)

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreKind, "revocation", app.redis != nil)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
}

func (app *App) close() {
	ctx := context.Background()
	if err := app.repomanager.Close(ctx); err != nil {
		app.logger.Error(ctx, "store close", "error", err)
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}
