package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"threadhub/internal/cli/auth"
	"threadhub/internal/cli/comments"
	cliconfig "threadhub/internal/cli/config"
	"threadhub/pkg/logger"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "threadctl",
	Short: "Command line client for threadhub discussions",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "error"
		if verbose {
			level = "debug"
		}
		logger.Init(logger.Config{Level: level, Output: "stderr"})
	},
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.threadhub/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")
	rootCmd.PersistentFlags().String("server", "", "API base URL, including /api/v1")
	viper.BindPFlag("server.base_url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(cliconfig.ConfigCmd)
	rootCmd.AddCommand(comments.CommentsCmd)
}

func initConfig() {
	viper.SetDefault("server.base_url", "http://localhost:8080/api/v1")
	viper.SetDefault("thread.page_size", 20)
	viper.SetDefault("thread.reply_page_size", 10)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".threadhub"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("threadctl")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
