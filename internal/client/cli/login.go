package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/usersvc/internal/client/storage"
	"github.com/iudanet/usersvc/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, password, err := c.readCredentials(false)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.Authenticate(ctx, api.AuthRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	session := &storage.Session{
		Server:    c.apiClient.BaseURL(),
		Email:     email,
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
	}
	if err := c.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Email: %s\n", email)
	c.io.Printf("Token expires: %s\n", resp.ExpiresAt.Local().Format("2006-01-02 15:04:05"))

	return nil
}
