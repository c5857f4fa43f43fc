package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/typeracehq/typerace/internal/config"
	"github.com/typeracehq/typerace/internal/model"
	"github.com/typeracehq/typerace/internal/services/auth"
)

// newTokenCmd creates the token command
func newTokenCmd() *cobra.Command {
	var (
		userID string
		name   string
		email  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		Long: `token signs a JWT with the configured auth secret, for connecting
test clients without a real identity provider.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			authService, err := auth.New(auth.Config{
				Secret:        cfg.Auth.Secret,
				TokenDuration: cfg.Auth.TokenDuration,
			})
			if err != nil {
				return err
			}

			if userID == "" {
				userID = uuid.NewString()
			}
			token, err := authService.GenerateToken(auth.Identity{
				UserID: model.UserID(userID),
				Name:   name,
				Email:  email,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "Subject user ID (random UUID if omitted)")
	cmd.Flags().StringVar(&name, "name", "Guest", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")

	return cmd
}
