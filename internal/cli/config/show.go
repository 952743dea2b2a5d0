package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display current threadctl configuration and connection settings",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Threadhub Configuration:")
		fmt.Fprintln(out, "")
		fmt.Fprintf(out, "Server:\n")
		fmt.Fprintf(out, "  Base URL: %s\n", viper.GetString("server.base_url"))
		fmt.Fprintf(out, "  Config file: %s\n", viper.ConfigFileUsed())
		fmt.Fprintln(out, "")
		fmt.Fprintf(out, "Thread:\n")
		fmt.Fprintf(out, "  Post: %s\n", viper.GetString("thread.post"))
		fmt.Fprintf(out, "  Page size: %d\n", viper.GetInt("thread.page_size"))
		fmt.Fprintf(out, "  Reply page size: %d\n", viper.GetInt("thread.reply_page_size"))
		fmt.Fprintln(out, "")

		token := viper.GetString("auth.token")
		if token != "" {
			if len(token) > 20 {
				fmt.Fprintf(out, "  Token: %s...\n", token[:20])
			} else {
				fmt.Fprintf(out, "  Token: %s\n", token)
			}
			fmt.Fprintf(out, "  Status: ✓ Logged in\n")
		} else {
			fmt.Fprintf(out, "  Status: ✗ Not logged in\n")
			fmt.Fprintf(out, "  Run 'threadctl auth login' to authenticate\n")
		}
	},
}

func init() {
	ConfigCmd.AddCommand(showCmd)
}
