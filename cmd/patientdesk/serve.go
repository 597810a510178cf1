package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/patientdesk/patientdesk/internal/domain/patient"
	"github.com/patientdesk/patientdesk/internal/platform/db"
	"github.com/patientdesk/patientdesk/internal/platform/middleware"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the patient API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()
			return runServer(commandContext(cmd), a)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides LISTEN_ADDR)")
	return cmd
}

func newServer(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(middleware.Recovery(a.logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("64K"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(a.handle))

	apiV1 := e.Group("/api/v1")
	patient.NewHandler(a.svc).RegisterRoutes(apiV1)

	return e
}

// runServer serves until ctx is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests.
func runServer(ctx context.Context, a *app) error {
	if err := a.cfg.ValidateListen(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := newServer(a)
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", a.cfg.ListenAddr).Str("driver", a.handle.Driver).Msg("starting server")
		if err := e.Start(a.cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			a.logger.Error().Err(err).Msg("server error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.logger.Info().Msg("server stopped")
	return nil
}
