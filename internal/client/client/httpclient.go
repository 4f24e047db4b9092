package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/rentscope/internal/common"
)

const maxErrorBody = 4 << 10

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API rooted at baseURL, e.g.
// "http://127.0.0.1:4000".
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) Signup(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", credentials{email, password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", credentials{email, password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*Identity, error) {
	var out Identity
	if err := c.do(ctx, http.MethodGet, "/api/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout fails with ErrNotFound when the server runs without revocation.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

func (c *HTTPClient) Health(ctx context.Context) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/health", "", nil, &out); err != nil {
		return err
	}
	if !out.OK {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var er errorResponse
		if data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); json.Unmarshal(data, &er) == nil {
			apiErr.Message = er.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty response from %s", path)
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
