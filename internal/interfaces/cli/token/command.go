// Package token implements the token CLI command for minting admin tokens.
package token

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rdfstore/internal/infrastructure/auth"
	"rdfstore/internal/infrastructure/config"
)

var (
	env      string
	username string
	ttlHours int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin API token",
		Long:  `Mint a signed admin token for a service account or operator, using the configured JWT secret.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Operator username to embed in the token (required)")
	cmd.Flags().IntVar(&ttlHours, "ttl-hours", 24, "Token lifetime in hours")
	cmd.MarkFlagRequired("username")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret)
	signed, err := jwtService.Generate(username, auth.RoleAdmin, time.Duration(ttlHours)*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Println(signed)
	return nil
}
