package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/rentscope/internal/client/client"
	"github.com/dmitrijs2005/rentscope/internal/client/config"
	"github.com/dmitrijs2005/rentscope/internal/client/tokenstore"
	"github.com/jessevdk/go-flags"
)

// Options are the global flags shared by every command.
type Options struct {
	Server    string        `short:"a" long:"server" description:"API base URL"`
	Config    string        `short:"c" long:"config" description:"JSON config file"`
	TokenFile string        `long:"token-file" description:"where the session token is stored"`
	Timeout   time.Duration `long:"timeout" description:"HTTP request timeout"`
}

type App struct {
	opts   Options
	ctx    context.Context
	in     *bufio.Reader
	stdin  *os.File
	out    io.Writer
	client client.APIClient
	tokens *tokenstore.FileStore

	// newClient is swapped in tests.
	newClient func(cfg *config.Config) (client.APIClient, error)
}

func newApp(ctx context.Context, stdin *os.File, out io.Writer) *App {
	return &App{
		ctx:   ctx,
		in:    bufio.NewReader(stdin),
		stdin: stdin,
		out:   out,
		newClient: func(cfg *config.Config) (client.APIClient, error) {
			return client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout)
		},
	}
}

// Run parses args and executes the selected command.
func Run(ctx context.Context, args []string, stdin *os.File, out io.Writer) error {
	return newApp(ctx, stdin, out).run(args)
}

func (a *App) parser() *flags.Parser {
	p := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	p.Name = "rentscope"
	p.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if err := a.setup(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}

	p.AddCommand("signup", "Create an account", "Registers a new account and saves the session token.", &signupCommand{app: a})
	p.AddCommand("login", "Log in", "Authenticates and saves the session token.", &loginCommand{app: a})
	p.AddCommand("me", "Show the current identity", "Asks the server who the saved token belongs to.", &meCommand{app: a})
	p.AddCommand("logout", "Log out", "Revokes the token on the server when supported and removes it locally.", &logoutCommand{app: a})
	p.AddCommand("health", "Check the server", "Calls the health endpoint.", &healthCommand{app: a})
	return p
}

func (a *App) run(args []string) error {
	_, err := a.parser().ParseArgs(args)
	var fe *flags.Error
	if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
		fmt.Fprintln(a.out, fe.Message)
		return nil
	}
	return err
}

// setup resolves configuration after flags are parsed. Flags win over the
// JSON file and the environment.
func (a *App) setup() error {
	cfg, err := config.LoadConfig(a.opts.Config)
	if err != nil {
		return err
	}
	if a.opts.Server != "" {
		cfg.ServerURL = a.opts.Server
	}
	if a.opts.TokenFile != "" {
		cfg.TokenFile = a.opts.TokenFile
	}
	if a.opts.Timeout > 0 {
		cfg.RequestTimeout = a.opts.Timeout
	}

	c, err := a.newClient(cfg)
	if err != nil {
		return err
	}
	a.client = c
	a.tokens = tokenstore.NewFileStore(cfg.TokenFile)
	return nil
}

func (a *App) readPassword() (string, error) {
	fd := int(a.stdin.Fd())
	if isTerminal(fd) {
		return GetPassword(fd, a.out)
	}
	return GetPasswordLine(a.in, a.out)
}

func (a *App) readCredentials(email string) (string, string, error) {
	var err error
	if email == "" {
		email, err = GetSimpleText(a.in, "Enter email", a.out)
		if err != nil {
			return "", "", err
		}
	}
	pw, err := a.readPassword()
	if err != nil {
		return "", "", err
	}
	return email, pw, nil
}
