package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shady333/gettingHWaccess/api/openapi"
	"github.com/shady333/gettingHWaccess/internal/api/handlers"
	mw "github.com/shady333/gettingHWaccess/internal/api/middleware"
	"github.com/shady333/gettingHWaccess/internal/config"
	"github.com/shady333/gettingHWaccess/internal/token"
)

const shutdownTimeout = 10 * time.Second

func newAcquirer(cfg *config.AcquirerConfig) (token.Acquirer, error) {
	switch cfg.Kind {
	case config.AcquirerBroker:
		return token.NewBrokerAcquirer(cfg.BrokerURL, token.WithBrokerTimeout(cfg.Timeout)), nil
	case config.AcquirerCommand:
		return token.NewCommandAcquirer(cfg.Command, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown acquirer kind %q", cfg.Kind)
	}
}

// newTokenStore builds the credential cache and restores a still-valid
// snapshot from a previous run.
func newTokenStore(cfg *config.TokenConfig, log *slog.Logger) *token.Store {
	store := token.NewStore(cfg.TTL,
		token.WithSnapshot(token.NewSnapshot(cfg.SnapshotPath)),
		token.WithLogger(log),
	)

	restored, err := store.LoadSnapshot()
	switch {
	case err != nil:
		log.Warn("reading token snapshot failed", "path", cfg.SnapshotPath, "error", err)
	case restored:
		log.Info("restored token from snapshot", "path", cfg.SnapshotPath)
	}
	return store
}

// newServer builds the Echo server with middleware, probes, /metrics and
// the Swagger UI, and returns the Huma API for registering typed routes.
func newServer(log *slog.Logger, tokens handlers.TokenSource, title string) (*echo.Echo, huma.API) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(mw.Recovery(log))
	e.Use(mw.RequestLog(log))
	e.Use(mw.Metrics())

	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler(tokens))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig(title, Version))
	openapi.RegisterRoutes(e, api)
	return e, api
}

// serveUntilDone runs e on addr until ctx is cancelled, then shuts it down.
func serveUntilDone(ctx context.Context, e *echo.Echo, addr string, cfg *config.ServerConfig, log *slog.Logger) error {
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
