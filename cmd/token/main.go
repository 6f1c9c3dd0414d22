// Command token mints a signed access/refresh token pair for an operator.
// There is no login endpoint; operators get their tokens from this tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"cardledger/internal/auth"
	"cardledger/internal/config"
	"cardledger/internal/logger"
)

func main() {
	email := flag.String("email", "", "operator e-mail address (token subject)")
	role := flag.String("role", auth.RoleUser, "operator role: admin or user")
	flag.Parse()

	logger.Init()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: token -email ops@example.com [-role admin|user]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	access, refresh, err := auth.GenerateTokens(*email, *role, cfg.JWTSecret, cfg.RefreshSecret)
	if err != nil {
		logger.Fatalf("Failed to generate tokens: %v", err)
	}

	fmt.Printf("ACCESS_TOKEN=%s\nREFRESH_TOKEN=%s\n", access, refresh)
}
