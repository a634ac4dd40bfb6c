package cli

import (
	"context"

	"github.com/iudanet/usersvc/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	email, password, err := c.readCredentials(true)
	if err != nil {
		return err
	}

	user, err := c.apiClient.CreateUser(ctx, api.UserRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %d\n", user.ID)
	c.io.Printf("Email: %s\n", user.Email)
	c.io.Println()
	c.io.Println("Please run 'usersvc login' to get a token.")

	return nil
}
