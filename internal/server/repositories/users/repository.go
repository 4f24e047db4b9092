// Package users implements the credential store: one identity record per
// normalized email, backed by PostgreSQL, MongoDB or process memory.
package users

import (
	"context"

	"github.com/dmitrijs2005/rentscope/internal/server/models"
)

// Repository persists identity records.
//
// Create must enforce email uniqueness itself and report a duplicate as
// common.ErrorAlreadyExists, even when two callers race past a prior lookup.
// GetUserByEmail returns common.ErrorNotFound when no record matches.
// Both expect an already normalized email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
