package app

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursepay/config"
	"coursepay/internal/controller/rest"
	"coursepay/internal/controller/rest/handlers"
	"coursepay/internal/domain/account"
	"coursepay/internal/domain/payment"
	"coursepay/internal/external/kafka"
	"coursepay/internal/external/stripe"
	account_repo "coursepay/internal/repo/account"
	catalog_repo "coursepay/internal/repo/catalog"
	payment_repo "coursepay/internal/repo/payment"
	"coursepay/internal/webhook"
	"coursepay/pkg/health"
	"coursepay/pkg/logger"
	"coursepay/pkg/metrics"
	"coursepay/pkg/postgres"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed migrations/*.sql
var MIGRATION_FS embed.FS

func Run(cfg config.Config) {
	l := logger.New(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engine := NewGinEngine(l)

	pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pool.Close()

	if err = ApplyMigrations(cfg.PgURL, MIGRATION_FS); err != nil {
		l.Fatal(fmt.Errorf("app - Run - ApplyMigrations: %w", err))
	}

	paymentRepo := payment_repo.NewPgPaymentRepo(pool)
	accountRepo := account_repo.NewPgAccountRepo(pool)
	catalogRepo := catalog_repo.NewPgCatalogRepo(pool)

	stripeClient := stripe.New(
		cfg.StripeAPIBaseURL,
		cfg.StripeSecretKey,
		&http.Client{Timeout: cfg.HTTPStripeClientTimeout},
	)

	accountService := account.NewAccountService(accountRepo, paymentRepo)
	paymentService := payment.NewPaymentService(paymentRepo, stripeClient, accountService, catalogRepo)

	var processor webhook.Processor
	healthCheckers := []health.Checker{health.NewPostgresChecker(pool)}

	if cfg.WebhookMode == "kafka" {
		l.Info("Webhook mode: kafka")
		publisher := kafka.NewPublisher(l, cfg.KafkaBrokers, cfg.KafkaPaymentsTopic)
		defer publisher.Close()

		processor = webhook.NewAsyncProcessor(publisher)
		healthCheckers = append(healthCheckers, health.NewKafkaChecker(cfg.KafkaBrokers))

		StartWorkers(ctx, l, cfg, paymentService)
	} else {
		l.Info("Webhook mode: sync")
		processor = webhook.NewSyncProcessor(paymentService)
	}

	StartPendingSweep(ctx, l, cfg, paymentService)

	paymentHandler := handlers.NewPaymentHandler(paymentService)
	webhookHandler := handlers.NewWebhookHandler(l, processor, cfg.StripeWebhookSecret, cfg.WebhookTolerance)
	accountHandler := handlers.NewAccountHandler(accountService)

	router := rest.NewRouter(paymentHandler, webhookHandler, accountHandler)
	router.SetUp(engine)

	healthRegistry := health.NewRegistry(healthCheckers...)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(healthRegistry, 5*time.Second))
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	go func() {
		l.Info("Starting HTTP server: port=%d", cfg.Port)
		if err := engine.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			l.Error("HTTP server error: error=%v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	l.Info("Shutting down gracefully...")
}
