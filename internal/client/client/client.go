package client

import "context"

// Identity is what the server reports about the bearer of a token.
type Identity struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
}

type APIClient interface {
	Signup(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, token string) (*Identity, error)
	Logout(ctx context.Context, token string) error
	Health(ctx context.Context) error
}
