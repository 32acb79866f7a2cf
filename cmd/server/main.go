// Command server runs the ZeCall dashboard: JSON API, server-rendered pages,
// inbound webhooks and the call-status workers.
//
// @title                      ZeCall Dashboard API
// @version                    1.0
// @description                Credits, campaigns, AI agents, incoming calls, Gmail and subscriptions for ZeCall tenants.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @securityDefinitions.apikey WebhookSecret
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/zecall/dashboard/internal/api"
	"github.com/zecall/dashboard/internal/api/handler"
	"github.com/zecall/dashboard/internal/core/ports"
	"github.com/zecall/dashboard/internal/core/service"
	"github.com/zecall/dashboard/internal/infrastructure/analytics"
	"github.com/zecall/dashboard/internal/infrastructure/db/mongo"
	"github.com/zecall/dashboard/internal/infrastructure/db/postgres"
	"github.com/zecall/dashboard/internal/infrastructure/db/redis"
	"github.com/zecall/dashboard/internal/infrastructure/gmail"
	"github.com/zecall/dashboard/internal/infrastructure/mailer"
	"github.com/zecall/dashboard/internal/infrastructure/payments"
	"github.com/zecall/dashboard/internal/infrastructure/queue"
	"github.com/zecall/dashboard/internal/pkg/config"
	"github.com/zecall/dashboard/internal/web"
	"github.com/zecall/dashboard/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "zecall-dashboard",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Stores ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		URL:      cfg.Redis.URL,
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	pg, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := postgres.Migrate(ctx, pg); err != nil {
		return err
	}
	log.Info().Msg("stores connected")

	// --- Adapters ---
	users := mongo.NewUserRepository(db)
	ledger := postgres.NewUsageLedger(pg)
	balanceCache := redis.NewBalanceCache(rdb, 0)
	eventBus := redis.NewEventBus(rdb, logger.Component("eventbus"))

	balances := analytics.NewClient(analytics.Config{
		BaseURL:    cfg.Analytics.URL,
		APIKey:     cfg.Analytics.APIKey,
		Timeout:    cfg.Analytics.Timeout,
		MaxRetries: cfg.Analytics.MaxRetries,
	}, logger.Component("analytics"))

	mailbox := gmail.NewMailbox(gmail.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.GmailRedirectURL(),
	}, logger.Component("gmail"))

	stripeProvider := payments.NewStripeProvider(payments.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
	}, logger.Component("stripe"))

	resetMailer, err := newMailer(ctx, cfg)
	if err != nil {
		return err
	}

	// --- Services ---
	callStatus := service.NewCallStatusService(ledger, balanceCache, eventBus, redis.NewDedupChecker(rdb), logger.Component("call_status"))
	svc := api.Services{
		Auth:          service.NewAuthService(users, cfg.JWTSecret, cfg.Session.TTL),
		PasswordReset: service.NewPasswordResetService(users, mongo.NewResetTokenRepository(db), resetMailer, cfg.BaseURL, cfg.Session.ResetTokenTTL, logger.Component("password_reset")),
		Credits:       service.NewCreditService(balances, balanceCache, ledger, cfg.Credits.CostPerSecond, logger.Component("credits")),
		Campaigns:     service.NewCampaignService(mongo.NewCampaignRepository(db), mongo.NewAgentRepository(db), logger.Component("campaigns")),
		Agents:        service.NewAgentService(mongo.NewAgentRepository(db), logger.Component("agents")),
		IncomingCalls: service.NewIncomingCallService(mongo.NewIncomingCallRepository(db)),
		Emails:        service.NewEmailService(mongo.NewGmailTokenRepository(db), mailbox, logger.Component("emails")),
		Subscriptions: service.NewSubscriptionService(mongo.NewSubscriptionRepository(db), stripeProvider, logger.Component("subscriptions")),
	}

	// Workers outlive the HTTP server so queued events are drained on shutdown.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher := queue.NewDispatcher(cfg.Webhook.Workers, callStatus, logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	e := api.NewRouter(svc, api.Options{
		JWTSecret:     cfg.JWTSecret,
		WebhookSecret: cfg.Webhook.Secret,
		Session: handler.SessionCookie{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: !cfg.IsDevelopment(),
		},
		Dispatcher: dispatcher,
		Events:     eventBus,
		Readiness:  readinessChecks(db, rdb, pg),
		Renderer:   renderer,
		Logger:     logger.Component("http"),
	})

	if cfg.Webhook.Secret == "" {
		log.Warn().Msg("WEBHOOK_SECRET is empty, call-status webhook accepts unauthenticated requests")
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	select {
	case <-dispatcher.Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("call-status workers did not drain before timeout")
	}
	return nil
}

// newMailer uses SES when a sender address is configured and logs reset
// links otherwise.
func newMailer(ctx context.Context, cfg *config.Config) (ports.Mailer, error) {
	if cfg.Mail.From == "" {
		return mailer.NewLogMailer(logger.Component("mailer")), nil
	}
	ses, err := mailer.NewSESMailer(ctx, mailer.SESConfig{
		From:            cfg.Mail.From,
		Region:          cfg.Mail.SESRegion,
		AccessKeyID:     cfg.Mail.AWSAccessKeyID,
		SecretAccessKey: cfg.Mail.AWSSecretAccessKey,
		LinkTTL:         cfg.Session.ResetTokenTTL.String(),
	}, logger.Component("mailer"))
	if err != nil {
		return nil, err
	}
	return ses, nil
}

func readinessChecks(db *mongodriver.Database, rdb *goredis.Client, pg *sql.DB) map[string]handler.PingFunc {
	return map[string]handler.PingFunc{
		"mongodb": func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		},
		"redis": func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
		"postgres": pg.PingContext,
	}
}
