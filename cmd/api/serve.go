package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/checkout-service/internal/catalog"
	"github.com/fairyhunter13/checkout-service/internal/config"
	"github.com/fairyhunter13/checkout-service/internal/content"
	"github.com/fairyhunter13/checkout-service/internal/events"
	"github.com/fairyhunter13/checkout-service/internal/gateway"
	"github.com/fairyhunter13/checkout-service/internal/handler"
	"github.com/fairyhunter13/checkout-service/internal/repository"
	"github.com/fairyhunter13/checkout-service/internal/server"
	"github.com/fairyhunter13/checkout-service/internal/service"
	"github.com/fairyhunter13/checkout-service/internal/validator"
	"github.com/fairyhunter13/checkout-service/pkg/database"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if missing := cfg.Missing(); len(missing) > 0 {
		log.Warn().Strs("missing", missing).Msg("running with incomplete configuration; affected endpoints will fail")
	}

	// Create context for startup
	ctx := context.Background()

	plans, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load price catalog: %w", err)
	}
	log.Info().Str("version", plans.Version()).Int("plans", len(plans.Plans())).Msg("price catalog loaded")

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if _, err := database.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("run migrations: %w", err)
	}

	coupons, closeContent, err := openContentSource(ctx, cfg)
	if err != nil {
		pool.Close()
		return err
	}

	publisher := openPublisher(cfg)

	gw := gateway.NewClient(cfg.Gateway.KeyID, cfg.Gateway.KeySecret,
		gateway.WithBaseURL(cfg.Gateway.BaseURL),
		gateway.WithTimeout(time.Duration(cfg.Gateway.TimeoutSeconds)*time.Second),
	)

	app := server.New(buildHandlers(cfg, pool, plans, coupons, gw, publisher), server.Options{
		AllowOrigins: cfg.CORS.AllowOrigins,
	})

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close dependencies AFTER server shutdown (even if shutdown timed out)
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("error closing event publisher")
	}
	closeContent(shutdownCtx)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("server stopped")
	return nil
}

func buildHandlers(cfg *config.Config, pool *pgxpool.Pool, plans *catalog.Catalog, coupons content.CouponSource, gw *gateway.Client, publisher events.Publisher) server.Handlers {
	validate := validator.New()

	// Initialize checkout components (layered architecture)
	txnRepo := repository.NewTransactionRepository(pool)
	redemptionRepo := repository.NewRedemptionRepository(pool)
	leadRepo := repository.NewLeadRepository(pool)

	couponService := service.NewCouponService(coupons, redemptionRepo)
	orderService := service.NewOrderService(plans, couponService, gw, txnRepo)
	settlementService := service.NewSettlementService(pool, txnRepo, redemptionRepo, publisher, cfg.Gateway.WebhookSecret)
	paymentService := service.NewPaymentService(txnRepo, cfg.Gateway.KeySecret)
	leadService := service.NewLeadService(leadRepo, publisher)

	return server.Handlers{
		Order:   handler.NewOrderHandler(orderService, validate),
		Coupon:  handler.NewCouponHandler(couponService),
		Webhook: handler.NewWebhookHandler(settlementService),
		Lead:    handler.NewLeadHandler(leadService, validate),
		Payment: handler.NewPaymentHandler(paymentService, validate),
		Plans:   handler.NewPlansHandler(plans),
		Health:  handler.NewHealthHandler(pool),
		Diag:    handler.NewDiagHandler(cfg.Diagnostics),
	}
}

// openContentSource connects the configured coupon store and returns its closer.
func openContentSource(ctx context.Context, cfg *config.Config) (content.CouponSource, func(context.Context), error) {
	timeout := time.Duration(cfg.Content.TimeoutSeconds) * time.Second

	if cfg.Content.Backend == "mongo" {
		mdb, err := database.ConnectMongo(ctx, cfg.Content.MongoURI, cfg.Content.MongoDB, timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to mongo content store: %w", err)
		}
		log.Info().Str("database", cfg.Content.MongoDB).Msg("coupon content backend: mongo")
		return content.NewMongoCouponStore(mdb.Database), func(ctx context.Context) {
			if err := mdb.Disconnect(ctx); err != nil {
				log.Error().Err(err).Msg("error disconnecting mongo")
			}
		}, nil
	}

	log.Info().Str("project", cfg.Content.ProjectID).Str("dataset", cfg.Content.Dataset).Msg("coupon content backend: sanity")
	return content.NewSanityClient(content.SanityConfig{
		ProjectID:  cfg.Content.ProjectID,
		Dataset:    cfg.Content.Dataset,
		Token:      cfg.Content.Token,
		APIVersion: cfg.Content.APIVersion,
		Timeout:    timeout,
	}), func(context.Context) {}, nil
}

// openPublisher connects to RabbitMQ when configured. Events are best-effort,
// so a broker outage at startup degrades to the no-op publisher.
func openPublisher(cfg *config.Config) events.Publisher {
	if cfg.Events.RabbitURL == "" {
		return events.NopPublisher{}
	}
	pub, err := events.NewRabbitPublisher(cfg.Events.RabbitURL, cfg.Events.Exchange)
	if err != nil {
		log.Error().Err(err).Msg("event publisher unavailable; continuing without events")
		return events.NopPublisher{}
	}
	log.Info().Str("exchange", cfg.Events.Exchange).Msg("publishing domain events")
	return pub
}
