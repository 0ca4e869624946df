package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/app/background"
	"github.com/LavaJover/shvark-escrow-service/internal/app/setup"
	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/migrate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"gorm.io/gorm"
)

func main() {
	cfg := config.MustLoad()
	logger.New(cfg.LogConfig)

	if err := run(cfg); err != nil {
		slog.Error("escrow service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.EscrowConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("dependencies: %w", err)
	}
	defer deps.Close()

	if err := migrate.RunMigrations(deps.DB, cfg.EscrowDB.MigrationsPath); err != nil {
		return err
	}

	ucs := setup.InitializeUseCases(deps)
	ping := pinger(deps.DB)

	tasks := background.NewBackgroundTasks(ucs.ReleaseUsecase, ucs.DisputeUsecase, cfg.Release.Schedule, cfg.Release.DefaultLimit)
	if cfg.Release.SeedOnBoot {
		tasks.SeedDisputes(ctx)
	}
	if err := tasks.StartAll(ctx); err != nil {
		return fmt.Errorf("release schedule: %w", err)
	}
	defer tasks.Stop()

	router := handlers.NewRouter(handlers.RouterConfig{
		Orders:    handlers.NewOrderHandler(ucs.OrderUsecase, ucs.ReleaseUsecase, ucs.PayoutUsecase),
		Disputes:  handlers.NewDisputeHandler(ucs.DisputeUsecase),
		Releases:  handlers.NewReleaseHandler(ucs.ReleaseUsecase, cfg.Release.DefaultLimit),
		Webhooks:  handlers.NewWebhookHandler(ucs.WebhookUsecase),
		JWTSecret: cfg.Auth.JWTSecret,
		Metrics:   promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
		Health:    ping,
	})
	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	grpcServer := grpc.NewServer()
	health := grpcapi.NewHealthServer(ping, 15*time.Second)
	health.Register(grpcServer)
	go health.Run(ctx)

	lis, err := net.Listen("tcp", net.JoinHostPort(cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("http server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		slog.Info("grpc server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}
	grpcServer.GracefulStop()

	if sqlDB, err := deps.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	slog.Info("escrow service stopped cleanly")
	return nil
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
