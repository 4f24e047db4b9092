// Package services contains server-side business logic. UserService handles
// signup, login and resolving a bearer token back to an identity.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/rentscope/internal/common"
	"github.com/dmitrijs2005/rentscope/internal/logging"
	"github.com/dmitrijs2005/rentscope/internal/server/auth"
	"github.com/dmitrijs2005/rentscope/internal/server/config"
	"github.com/dmitrijs2005/rentscope/internal/server/models"
	"github.com/dmitrijs2005/rentscope/internal/server/password"
	"github.com/dmitrijs2005/rentscope/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rentscope/internal/server/revocation"
	"github.com/google/uuid"
)

// dummyPassword is hashed once and compared against when the email is
// unknown, so both login failures cost one hash comparison.
const dummyPassword = "rentscope-no-such-user"

// MaxEmailLength is the longest address a mailbox path may have (RFC 5321).
const MaxEmailLength = 254

// ValidationError carries a client-facing reason and matches common.ErrorValidation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
func (e *ValidationError) Unwrap() error { return common.ErrorValidation }

// Session is the result of a successful signup or login.
type Session struct {
	Token string
	User  *models.User
}

type UserService struct {
	repomanager       repomanager.RepositoryManager
	hasher            password.Hasher
	tokens            *auth.TokenService
	revoker           revocation.Revoker
	minPasswordLength int
	log               logging.Logger
	dummyHash         string
}

// NewUserService wires the credential store, hasher and token service.
// revoker may be nil, in which case tokens cannot be revoked.
func NewUserService(m repomanager.RepositoryManager, h password.Hasher, tokens *auth.TokenService,
	revoker revocation.Revoker, cfg *config.Config, log logging.Logger) *UserService {
	s := &UserService{
		repomanager:       m,
		hasher:            h,
		tokens:            tokens,
		revoker:           revoker,
		minPasswordLength: cfg.MinPasswordLength,
		log:               log.With("module", "services.users"),
	}

	dummy, err := h.Hash(dummyPassword)
	if err != nil {
		s.log.Warn(context.Background(), "dummy hash unavailable", "error", err)
	}
	s.dummyHash = dummy

	return s
}

// RevocationEnabled reports whether Logout has a denylist to write to.
func (s *UserService) RevocationEnabled() bool { return s.revoker != nil }

// Register creates the identity and immediately issues a token for it.
// Errors match common.ErrorValidation, common.ErrorAlreadyExists or
// common.ErrorInternal.
func (s *UserService) Register(ctx context.Context, email, pw string) (*Session, error) {
	email = models.NormalizeEmail(email)
	if email == "" || pw == "" {
		return nil, &ValidationError{Reason: "Email and password required"}
	}
	if len(email) > MaxEmailLength {
		return nil, &ValidationError{Reason: "Email is too long"}
	}
	if utf8.RuneCountInString(pw) < s.minPasswordLength {
		return nil, &ValidationError{Reason: fmt.Sprintf("Password must be at least %d characters", s.minPasswordLength)}
	}

	repo := s.repomanager.Users()

	if _, err := repo.GetUserByEmail(ctx, email); err == nil {
		s.log.Info(ctx, "signup rejected, email taken", "email", email)
		return nil, fmt.Errorf("error creating user: %w", common.ErrorAlreadyExists)
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.log.Error(ctx, "signup lookup failed", "email", email, "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(pw)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return nil, &ValidationError{Reason: "Password is too long"}
		}
		s.log.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.log.Info(ctx, "signup rejected, email taken", "email", email)
			return nil, fmt.Errorf("error creating user: %w", common.ErrorAlreadyExists)
		}
		s.log.Error(ctx, "create user failed", "email", email, "error", err)
		return nil, common.ErrorInternal
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Error(ctx, "issue token failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "user registered", "email", email, "user_id", user.ID)
	return &Session{Token: token, User: user}, nil
}

// Login checks the password and issues a token. An unknown email and a wrong
// password both yield common.ErrorInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, pw string) (*Session, error) {
	email = models.NormalizeEmail(email)

	user, err := s.repomanager.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = s.hasher.Compare(s.dummyHash, pw)
			s.log.Info(ctx, "login failed", "email", email)
			return nil, common.ErrorInvalidCredentials
		}
		s.log.Error(ctx, "login lookup failed", "email", email, "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.hasher.Compare(user.PasswordHash, pw); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.Warn(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		}
		s.log.Info(ctx, "login failed", "email", email)
		return nil, common.ErrorInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Error(ctx, "issue token failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "user logged in", "email", email, "user_id", user.ID)
	return &Session{Token: token, User: user}, nil
}

// Identify verifies token and, when revocation is enabled, checks the
// denylist. Failures match common.ErrInvalidToken.
func (s *UserService) Identify(ctx context.Context, token string) (*auth.Identity, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, id.TokenID)
		if err != nil {
			s.log.Error(ctx, "revocation lookup failed", "error", err)
			return nil, common.ErrorInternal
		}
		if revoked {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenRevoked)
		}
	}

	return id, nil
}

// Logout revokes the token described by id until it would have expired.
func (s *UserService) Logout(ctx context.Context, id *auth.Identity) error {
	if s.revoker == nil {
		return common.ErrorNotFound
	}
	if err := s.revoker.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		s.log.Error(ctx, "revoke token failed", "error", err)
		return common.ErrorInternal
	}
	s.log.Info(ctx, "user logged out", "user_id", id.Subject)
	return nil
}
