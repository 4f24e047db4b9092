package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rentscope/internal/client/client"
	"github.com/dmitrijs2005/rentscope/internal/client/tokenstore"
)

type signupCommand struct {
	app   *App
	Email string `short:"e" long:"email" description:"account email"`
}

func (c *signupCommand) Execute([]string) error {
	email, pw, err := c.app.readCredentials(c.Email)
	if err != nil {
		return err
	}
	token, err := c.app.client.Signup(c.app.ctx, email, pw)
	if err != nil {
		return describe(err)
	}
	if err := c.app.tokens.Save(token); err != nil {
		return err
	}
	fmt.Fprintln(c.app.out, "Account created!")
	return nil
}

type loginCommand struct {
	app   *App
	Email string `short:"e" long:"email" description:"account email"`
}

func (c *loginCommand) Execute([]string) error {
	email, pw, err := c.app.readCredentials(c.Email)
	if err != nil {
		return err
	}
	token, err := c.app.client.Login(c.app.ctx, email, pw)
	if err != nil {
		return describe(err)
	}
	if err := c.app.tokens.Save(token); err != nil {
		return err
	}
	fmt.Fprintln(c.app.out, "Logged in!")
	return nil
}

type meCommand struct {
	app *App
}

func (c *meCommand) Execute([]string) error {
	token, err := c.app.tokens.Load()
	if err != nil {
		return err
	}
	id, err := c.app.client.Me(c.app.ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errors.New("session expired or invalid, please log in again")
		}
		return describe(err)
	}
	fmt.Fprintf(c.app.out, "subject: %s\nemail:   %s\n", id.Subject, id.Email)
	return nil
}

type logoutCommand struct {
	app *App
}

// Execute always forgets the local token. Servers without revocation answer
// 404, which is not an error here.
func (c *logoutCommand) Execute([]string) error {
	token, err := c.app.tokens.Load()
	if errors.Is(err, tokenstore.ErrNoToken) {
		fmt.Fprintln(c.app.out, "Not logged in")
		return nil
	}
	if err != nil {
		return err
	}

	err = c.app.client.Logout(c.app.ctx, token)
	switch {
	case err == nil, errors.Is(err, client.ErrNotFound), errors.Is(err, client.ErrUnauthorized):
	default:
		return describe(err)
	}

	if err := c.app.tokens.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(c.app.out, "Logged out")
	return nil
}

type healthCommand struct {
	app *App
}

func (c *healthCommand) Execute([]string) error {
	if err := c.app.client.Health(c.app.ctx); err != nil {
		return describe(err)
	}
	fmt.Fprintln(c.app.out, "ok")
	return nil
}

// describe prefers the server's message for API errors.
func describe(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return err
}
