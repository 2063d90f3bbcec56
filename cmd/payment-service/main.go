package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/LavaJover/shvark-payment-service/internal/app/setup"
	"github.com/LavaJover/shvark-payment-service/internal/config"
	"github.com/LavaJover/shvark-payment-service/internal/delivery/grpcapi"
	httpapi "github.com/LavaJover/shvark-payment-service/internal/delivery/http"
	"github.com/LavaJover/shvark-payment-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	appLogger, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	slog.SetDefault(appLogger)

	deps, err := setup.InitializeDependencies(cfg, appLogger)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer deps.Close()

	uc, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}

	// HTTP: gateway notifications, health, metrics
	notifyHandler := handlers.NewNotifyHandler(uc.NotifyUsecase, cfg.MaxBodyBytes, appLogger)
	healthHandler := handlers.NewHealthHandler(
		handlers.PingerFunc(deps.PingDB),
		deps.ReplayStore,
		appLogger,
	)
	router := httpapi.NewRouter(notifyHandler, healthHandler, httpapi.RouterConfig{
		NotifyPath:     cfg.NotifyPath,
		RequestTimeout: cfg.RequestTimeout,
		Gatherer:       deps.Registry,
	})
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	// gRPC: health service
	grpcServer, healthServer := grpcapi.NewServer()
	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		slog.Info("gRPC server started", "addr", cfg.GRPCAddr())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		slog.Info("HTTP server started", "addr", cfg.HTTPAddr(), "notify_path", cfg.NotifyPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	grpcapi.SetServing(healthServer, true)

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("server failed", "error", err)
	}

	grpcapi.SetServing(healthServer, false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()

	// let in-flight paid events and alerts reach kafka before the writer closes
	uc.NotifyUsecase.Wait()
	slog.Info("payment service stopped")
}
