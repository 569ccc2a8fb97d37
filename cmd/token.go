package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/config"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/server"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token for the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "bot", "Subject the token is issued to")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "Token lifetime; 0 for no expiry")
}

func runToken(cmd *cobra.Command, args []string) error {
	if cfg.Server.JWTSecret == "" {
		return usageError("no JWT secret configured (set server.jwt_secret or %s)", config.EnvJWTSecret)
	}
	if tokenTTL < 0 {
		return usageError("--ttl must not be negative")
	}
	tok, err := server.GenerateToken([]byte(cfg.Server.JWTSecret), tokenSubject, tokenTTL)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	fmt.Println(tok)
	return nil
}
