// Package cli implements the commands of the usersvc client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/usersvc/internal/client/api"
	"github.com/iudanet/usersvc/internal/client/iocli"
	"github.com/iudanet/usersvc/internal/client/storage"
)

var (
	// ErrUnknownCommand is returned by Run for a command it does not know.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNotLoggedIn is returned by commands that need a saved session.
	ErrNotLoggedIn = errors.New("not logged in, run 'usersvc login' first")
	// ErrSessionExpired is returned when the saved token is past its expiry.
	ErrSessionExpired = errors.New("session expired, run 'usersvc login' again")
)

type Cli struct {
	apiClient *api.Client
	sessions  storage.SessionStorage
	io        iocli.IO
	now       func() time.Time
}

func New(apiClient *api.Client, sessions storage.SessionStorage, io iocli.IO) *Cli {
	return &Cli{
		apiClient: apiClient,
		sessions:  sessions,
		io:        io,
		now:       time.Now,
	}
}

// Run выполняет команду с ее аргументами (без имени самой команды)
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "health":
		return c.runHealth(ctx)
	case "me":
		return c.runMe(ctx)
	case "list":
		return c.runList(ctx)
	case "update":
		return c.runUpdate(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	default:
		c.PrintUsage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

func (c *Cli) PrintUsage() {
	c.io.Println("usersvc client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  usersvc [OPTIONS] COMMAND [ARGS]")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  --version          Show version information")
	c.io.Println("  --server URL       Server URL (default: http://localhost:8080)")
	c.io.Println("  --db PATH          Path to local session database (default: usersvc-client.db)")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  register           Create a new user")
	c.io.Println("  login              Authenticate and save the token")
	c.io.Println("  logout             Forget the saved token")
	c.io.Println("  status             Show the saved session")
	c.io.Println("  health             Check server and database health")
	c.io.Println("  me                 Show the user the token belongs to")
	c.io.Println("  list               List all users")
	c.io.Println("  update <id>        Change email and password of a user")
	c.io.Println("  delete <id>        Delete a user")
	c.io.Println()
	c.io.Println("Examples:")
	c.io.Println("  usersvc register")
	c.io.Println("  usersvc --server https://users.example.com login")
	c.io.Println("  usersvc delete 42")
}
