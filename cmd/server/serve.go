package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpDelivery "github.com/foodiebot/backend/internal/delivery/http"
	"github.com/foodiebot/backend/internal/infrastructure/sqlite"
	"github.com/foodiebot/backend/internal/observability"
	"github.com/foodiebot/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	products := sqlite.NewProductRepository(a.db)
	conversations := sqlite.NewConversationRepository(a.db)
	messages := sqlite.NewMessageRepository(a.db)

	catalog := usecase.NewCatalogService(products, a.cache, usecase.CatalogServiceConfig{
		SnapshotTTL: a.cfg.Cache.TTL,
		AdminToken:  a.cfg.Admin.Token,
	}, a.logger, metrics)

	handler := httpDelivery.NewHandler(
		usecase.NewConversationService(conversations, messages, catalog, a.logger, metrics),
		catalog,
		usecase.NewAnalyticsService(products, conversations, messages),
		a.logger,
	)
	router := httpDelivery.SetupRouter(a.cfg, handler, a.logger, metrics, registry)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
