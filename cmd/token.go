package cmd

import (
	"fmt"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/auth"
	"github.com/spf13/cobra"
)

var tokenUserID int64

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a development access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		tokens := auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
		token, expiresAt, err := tokens.Issue(tokenUserID)
		if err != nil {
			return err
		}
		fmt.Println(token)
		fmt.Printf("expires at %s\n", expiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user-id", 1, "user the token identifies")
}
