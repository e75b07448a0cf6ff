// Command token mints bearer tokens for servers running with AUTH_REQUIRED=true.
package main

import (
	"fmt"                             // Output
	"os"                              // Exit codes
	"time"                            // Token lifetime
	"wallet_registry/internal/config" // Custom package for configuration
	"wallet_registry/internal/utils"  // JWT utility functions

	"github.com/spf13/cobra" // CLI framework
)

func main() {
	var (
		userID int64
		ttl    time.Duration
		secret string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a JWT accepted by the wallet API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = config.LoadConfig().JWTSecret // Fall back to JWT_SECRET
			}
			token, err := utils.GenerateJWT(userID, secret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user-id", 0, "user id carried in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
