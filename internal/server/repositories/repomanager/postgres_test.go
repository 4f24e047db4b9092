package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/rentscope/internal/server/config"
	"github.com/dmitrijs2005/rentscope/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestPostgresManager_ReturnsInterface(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var m RepositoryManager = NewPostgresRepositoryManager(db)
	if u := m.Users(); u == nil {
		t.Fatal("Users() nil")
	}
	var _ *users.PostgresRepository = m.Users().(*users.PostgresRepository)
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestPostgresManager_Close(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectClose()

	m := NewPostgresRepositoryManager(db)
	if err := m.Close(context.Background()); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOpen_MemoryAndUnknown(t *testing.T) {
	ctx := context.Background()

	m, err := Open(ctx, &config.Config{StoreKind: config.StoreMemory})
	if err != nil {
		t.Fatalf("Open(memory) error: %v", err)
	}
	if _, ok := m.(*InMemoryRepositoryManager); !ok {
		t.Fatalf("expected in-memory manager, got %T", m)
	}
	if err := m.RunMigrations(ctx); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}

	if _, err := Open(ctx, &config.Config{StoreKind: "etcd"}); err == nil {
		t.Fatal("expected error for unknown store kind")
	}
}
