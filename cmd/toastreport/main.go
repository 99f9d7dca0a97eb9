// Command toastreport serves flattened Toast menu and order reports over HTTP.
//
// @title           Toast Report API
// @version         1.0
// @description     Read-only reports over the Toast POS REST API: the flattened menu catalog and approved order lines enriched with catalog data.
// @BasePath        /api/v1
// @schemes         http https
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/toast-report/internal/config"
	httpapi "github.com/tbourn/toast-report/internal/http"
	"github.com/tbourn/toast-report/internal/observability"
	"github.com/tbourn/toast-report/internal/services"
	"github.com/tbourn/toast-report/internal/sysutil"
	"github.com/tbourn/toast-report/internal/toast"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	logger := sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, os.Stderr)
	gin.SetMode(cfg.GinMode)

	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion,
		attribute.String("toast.restaurant_external_id", cfg.Toast.RestaurantID))
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	client := toast.NewClient(toast.Credentials{
		BaseURL:      cfg.Toast.BaseURL,
		ClientID:     cfg.Toast.ClientID,
		ClientSecret: cfg.Toast.ClientSecret,
		RestaurantID: cfg.Toast.RestaurantID,
	},
		toast.WithTimeout(cfg.Toast.HTTPTimeout),
		toast.WithLogger(logger.With().Str("component", "toast").Logger()),
	)

	reports := &services.ReportService{
		Client:      client,
		DefaultDays: cfg.DefaultDays,
		PageSize:    cfg.Toast.PageSize,
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, reports, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", appVersion).
			Str("base_path", cfg.APIBasePath).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownOTel(shutCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
	log.Info().Msg("server stopped")
}
