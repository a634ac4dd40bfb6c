package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/usersvc/internal/client/storage"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'usersvc login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Server: %s\n", session.Server)
	c.io.Printf("Email: %s\n", session.Email)
	c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))

	now := c.now()
	if session.Expired(now) {
		c.io.Println("⚠️  Token has expired. Please login again.")
	} else {
		c.io.Printf("Time remaining: %s\n", session.ExpiresAt.Sub(now).Round(time.Second))
	}

	return nil
}
