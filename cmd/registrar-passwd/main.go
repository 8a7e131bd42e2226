package main

import (
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/noah-isme/literacy-registrar/pkg/config"
)

const minPasswordLength = 8

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	fmt.Println("=== Operator password hash ===")
	password := prompt("Enter Password: ")
	if len(password) < minPasswordLength {
		fmt.Fprintf(os.Stderr, "Error: password must be at least %d characters\n", minPasswordLength)
		os.Exit(1)
	}
	if prompt("Confirm Password: ") != password {
		fmt.Fprintln(os.Stderr, "Error: passwords do not match")
		os.Exit(1)
	}

	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("AUTH_PASSWORD_HASH=%s\n", hash)
}

func prompt(label string) string {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading password")
		os.Exit(1)
	}
	return string(raw)
}
