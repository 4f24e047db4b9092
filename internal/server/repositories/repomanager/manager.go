// Package repomanager selects and owns the credential store backend: it opens
// the connection, prepares the schema (goose migrations or Mongo indexes) and
// vends the users repository.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/rentscope/internal/server/config"
	"github.com/dmitrijs2005/rentscope/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close(ctx context.Context) error
}

// Open connects to the backend named by cfg.StoreKind.
func Open(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StoreKind {
	case config.StorePostgres:
		m, err := OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StoreMongo:
		m, err := OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StoreMemory:
		return NewInMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.StoreKind)
	}
}
