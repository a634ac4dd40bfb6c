// Command hashpw prints an Argon2id credential for a password read from the
// terminal (without echo) or from stdin, for seeding user rows by hand.
package main

import (
	"fmt"
	"os"

	"github.com/iudanet/usersvc/internal/client/iocli"
	"github.com/iudanet/usersvc/internal/crypto"
	"github.com/iudanet/usersvc/internal/validation"
)

func main() {
	if err := run(iocli.New(os.Stdin, os.Stderr)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Приглашение пишется в stderr, чтобы stdout содержал только credential
func run(stdio iocli.IO) error {
	password, err := stdio.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	encoded, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	fmt.Println(encoded)
	return nil
}
