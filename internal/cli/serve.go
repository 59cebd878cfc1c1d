package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"taskTracker/internal/auth"
	"taskTracker/internal/db"
	grpcserver "taskTracker/internal/grpc"
	"taskTracker/internal/httpapi"
	"taskTracker/internal/logging"
	"taskTracker/repository"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the gRPC health endpoint)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	logger.Info("configuration loaded", "config", cfg.String())

	// Open DB
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Error("close db", "err", err)
		}
	}()

	users := repository.NewUserRepository(d)
	todos := repository.NewTodoRepository(d, logger)

	svc, err := auth.New(users, auth.Options{
		Secret:     cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	e := httpapi.New(httpapi.Options{
		Auth:        svc,
		Todos:       todos,
		Logger:      logger,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})
	httpSrv, err := httpapi.Start(cfg.HTTP.Address, e, logger)
	if err != nil {
		return fmt.Errorf("start http: %w", err)
	}
	logger.Info("http server listening", "addr", httpSrv.Addr().String())

	healthSrv, err := grpcserver.StartGRPC(cfg.GRPC.Address, logger)
	if err != nil {
		_ = httpSrv.Shutdown(context.Background())
		return fmt.Errorf("start grpc: %w", err)
	}
	if healthSrv != nil {
		logger.Info("grpc health server listening", "addr", healthSrv.Addr().String())
	}

	// Wait for signal
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("grpc shutdown", "err", err)
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	return nil
}
