package cli

import (
	"context"

	"github.com/iudanet/usersvc/pkg/api"
)

func (c *Cli) runHealth(ctx context.Context) error {
	resp, err := c.apiClient.Health(ctx)
	if err != nil {
		return err
	}

	c.io.Printf("Status: %s\n", resp.Status)
	if resp.Version != "" {
		c.io.Printf("Version: %s\n", resp.Version)
	}
	return nil
}

func (c *Cli) runMe(ctx context.Context) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	me, err := c.apiClient.Me(ctx, token)
	if err != nil {
		return authError(err)
	}

	c.io.Printf("ID: %d\n", me.ID)
	c.io.Printf("Email: %s\n", me.Email)
	c.io.Printf("Token expires: %s\n", me.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func (c *Cli) runList(ctx context.Context) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	users, err := c.apiClient.ListUsers(ctx, token)
	if err != nil {
		return authError(err)
	}

	if len(users) == 0 {
		c.io.Println("No users found.")
		return nil
	}

	c.io.Printf("%-8s %s\n", "ID", "EMAIL")
	for _, u := range users {
		c.io.Printf("%-8d %s\n", u.ID, u.Email)
	}
	c.io.Println()
	c.io.Printf("Total: %d\n", len(users))
	return nil
}

func (c *Cli) runUpdate(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	c.io.Printf("=== Update user %d ===\n", id)
	c.io.Println()

	email, password, err := c.readCredentials(true)
	if err != nil {
		return err
	}

	user, err := c.apiClient.UpdateUser(ctx, token, id, api.UserRequest{Email: email, Password: password})
	if err != nil {
		return authError(err)
	}

	c.io.Println("✓ User updated")
	c.io.Printf("ID: %d\n", user.ID)
	c.io.Printf("Email: %s\n", user.Email)
	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	user, err := c.apiClient.DeleteUser(ctx, token, id)
	if err != nil {
		return authError(err)
	}

	c.io.Printf("✓ Deleted user %d (%s)\n", user.ID, user.Email)
	return nil
}
