package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved token",
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.Set("auth.token", "")
		if _, err := writeConfig(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
		return nil
	},
}

func init() {
	AuthCmd.AddCommand(logoutCmd)
}

// writeConfig persists viper's settings to the file it was loaded from, or
// to ~/.threadhub/config.yaml
func writeConfig() (string, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, ".threadhub", "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}
