package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/casafunko/orders-service/internal/config"
	"github.com/casafunko/orders-service/internal/db"
	"github.com/casafunko/orders-service/internal/order"
	"github.com/casafunko/orders-service/internal/payment"
	"github.com/casafunko/orders-service/internal/transport"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "orders-service").Logger()

	log.Info().Msg("Orders service starting...")

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := context.Background()

	pg, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	if err := db.ApplyMigrations(cfg.Postgres); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	var gateway order.PaymentGateway
	switch cfg.Payment.Provider {
	case "wompi":
		gateway = payment.NewWompi(cfg.Payment.WompiPublicKey, cfg.Payment.Currency, cfg.App.BaseURL)
	default:
		gateway = payment.NewMercadoPago(payment.MercadoPagoConfig{
			AccessToken: cfg.Payment.AccessToken,
			Currency:    cfg.Payment.Currency,
			AppBaseURL:  cfg.App.BaseURL,
			Timeout:     cfg.Payment.APITimeout,
		})
	}
	log.Info().Str("provider", cfg.Payment.Provider).Msg("Payment gateway configured")

	repo := order.NewRepository(pg.Pool)
	svc := order.NewService(repo, gateway, cfg.Payment.ShippingRequired)
	router := transport.NewRouter(svc, cfg.Payment.WebhookSecret)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
