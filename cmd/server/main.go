package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"threadhub/internal/core"
	httpProtocol "threadhub/internal/protocols/http"
	"threadhub/internal/repository"
	"threadhub/pkg/config"
	"threadhub/pkg/database"
	"threadhub/pkg/logger"
	"threadhub/pkg/models"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:          "threadhub-server",
		Short:        "Threadhub comments REST server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./configs/development.yaml", "config file")
	rootCmd.AddCommand(tokenCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	return cfg, nil
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("Starting threadhub server...")

	db, err := database.Open(database.Config{
		Driver:          cfg.Database.Driver,
		Path:            cfg.Database.Path,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		Timeout:         cfg.Database.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	logger.Infof("Connected to %s database", cfg.Database.Driver)

	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}

	authSvc := core.NewAuthService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	commentSvc := core.NewCommentService(repository.NewCommentRepository(db), core.Limits{
		Default:      cfg.Pagination.DefaultLimit,
		DefaultReply: cfg.Pagination.DefaultReplyLimit,
		Max:          cfg.Pagination.MaxLimit,
	})

	httpServer := httpProtocol.NewServer(cfg, db, authSvc, commentSvc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Shutdown complete")
	return nil
}

// tokenCmd signs a development token with the configured secret
func tokenCmd() *cobra.Command {
	var viewer models.Viewer

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a viewer token signed with the server secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			token, expiresAt, err := core.NewAuthService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration).IssueToken(viewer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&viewer.ID, "user-id", "", "viewer id (required)")
	cmd.Flags().StringVar(&viewer.Name, "name", "", "display name")
	cmd.Flags().StringVar(&viewer.Role, "role", "member", "role (member or admin)")
	cmd.MarkFlagRequired("user-id")
	return cmd
}
