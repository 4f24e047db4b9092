// Package auth issues and verifies the signed session tokens handed out on
// signup and login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rentscope/internal/common"
	"github.com/dmitrijs2005/rentscope/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the standard registered claims plus the identity's email.
// Subject carries the identity id, ID the token id (jti).
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	Subject   string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService signs tokens with HS256 using a secret loaded once at startup.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// Option customizes a TokenService.
type Option func(*TokenService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret []byte, validity time.Duration, opts ...Option) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("token signing secret is empty")
	}
	if validity <= 0 {
		return nil, errors.New("token validity must be positive")
	}

	s := &TokenService{secret: secret, validity: validity, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Issue returns a signed token for u expiring after the configured validity.
func (s *TokenService) Issue(u *models.User) (string, error) {
	if u == nil || u.ID == "" {
		return "", errors.New("cannot issue token without identity")
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
			ID:        uuid.NewString(),
		},
		Email: u.Email,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. Every failure matches
// common.ErrInvalidToken; an expired token also matches common.ErrTokenExpired.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	id := &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
