package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"threadhub/internal/tui/api"
	"threadhub/pkg/utils"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save a viewer token",
	Long:  "Save a token issued by your identity provider (or `threadhub-server token` in development)",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")

		if token == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Token: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			token = string(raw)
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return fmt.Errorf("token is required")
		}

		client := api.NewClient(viper.GetString("server.base_url"))
		ctx, cancel := utils.WithTimeout(cmd.Context())
		defer cancel()
		if err := client.Health(ctx); err != nil {
			return fmt.Errorf("server unreachable: %w", err)
		}

		viper.Set("auth.token", token)
		path, err := writeConfig()
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✓ Token saved")
		fmt.Fprintf(cmd.OutOrStdout(), "  Config: %s\n", path)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("token", "", "Token (prompted when omitted)")
	AuthCmd.AddCommand(loginCmd)
}
