package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/expense-tracker/api"
	"github.com/frahmantamala/expense-tracker/internal/auth"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/summary"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/internal/transport/rest"
	"github.com/frahmantamala/expense-tracker/internal/transport/swagger"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

func startHTTPServer(parent context.Context) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Error("database close error", "error", err)
		}
	}()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := swagger.Load(ctx, api.OpenAPI); err != nil {
		return err
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, a.handlers(), a.logger)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting HTTP server", "address", addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("server stopped with error", "error", err)
		return err
	}
	a.logger.Info("server stopped")
	return nil
}

func (a *app) handlers() rest.Handlers {
	components := map[string]rest.Pinger{}
	if a.sqlDB != nil {
		components[a.cfg.Database.Driver] = a.sqlDB
	}

	return rest.Handlers{
		Health:   rest.NewHealthHandler(components),
		Auth:     auth.NewHandler(a.tokens),
		Category: category.NewHandler(transport.NewBaseHandler(a.logger), a.categories),
		Expense:  expense.NewHandler(a.expenses),
		Summary:  summary.NewHandler(a.summaries),
		OpenAPI:  api.OpenAPI,
	}
}
