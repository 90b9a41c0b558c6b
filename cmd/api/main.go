package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"biaslens/adapters/memory"
	"biaslens/adapters/postgres"
	"biaslens/app"
	"biaslens/internal"
	"biaslens/internal/api"
	"biaslens/internal/config"
	"biaslens/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.DefaultLogger

	history := buildHistory(cfg, logger)

	bias := app.NewBiasService(logger, history)
	skew := app.NewSkewService(logger, history)
	preprocess := app.NewPreprocessService(logger)
	reports := app.NewReportService(logger, history, cfg.Paths.ReportsDir)

	server := api.NewServer(cfg, logger, bias, skew, preprocess, reports)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiServer := &http.Server{Addr: ":" + cfg.Server.Port, Handler: server.Handler()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API server listening on :%s", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	var debugServer *http.Server
	if cfg.Debug.Enabled {
		debugServer = &http.Server{Addr: ":" + cfg.Debug.Port, Handler: api.DebugHandler()}
		g.Go(func() error {
			logger.Info("Debug server listening on :%s", cfg.Debug.Port)
			if err := debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if debugServer != nil {
			_ = debugServer.Shutdown(shutdownCtx)
		}
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	logger.Info("Shutdown complete")
}

// buildHistory picks the run-history backend: Postgres when DATABASE_URL is
// set, in-memory otherwise.
func buildHistory(cfg *config.Config, logger *internal.Logger) ports.HistoryRepository {
	if cfg.Database.URL == "" {
		logger.Info("DATABASE_URL not set, keeping run history in memory")
		return memory.NewHistoryRepository()
	}
	repo, err := postgres.NewHistoryRepository(cfg.Database.URL)
	if err != nil {
		logger.Warn("Failed to connect run-history database, falling back to memory: %v", err)
		return memory.NewHistoryRepository()
	}
	logger.Info("Run history backed by Postgres")
	return repo
}
