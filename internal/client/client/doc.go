// Package client contains the typed API client for the RentScope auth API.
//
// # Overview
//
// APIClient is the single abstraction the CLI (or any other front end) uses to
// talk to the server: Signup, Login, Me, Logout and Health. HTTPClient is the
// implementation over the HTTP/JSON contract served by internal/server/rest.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, which carries the status code
// and the server's message and unwraps to one of the sentinel errors
// ErrValidation (400), ErrUnauthorized (401), ErrNotFound (404),
// ErrConflict (409) or ErrServer (5xx). Transport failures wrap
// ErrUnavailable. Match them with errors.Is.
//
// All operations accept context.Context and honor cancellation and timeouts.
package client
