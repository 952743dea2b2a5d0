package auth

import "github.com/spf13/cobra"

var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Store or clear the bearer token used for writes",
}

func init() {
	// Commands added in login.go and logout.go
}
