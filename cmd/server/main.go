package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/travel-buddy/config"
	"github.com/ErlanBelekov/travel-buddy/internal/credential"
	"github.com/ErlanBelekov/travel-buddy/internal/email"
	"github.com/ErlanBelekov/travel-buddy/internal/health"
	"github.com/ErlanBelekov/travel-buddy/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/travel-buddy/internal/log"
	"github.com/ErlanBelekov/travel-buddy/internal/metrics"
	"github.com/ErlanBelekov/travel-buddy/internal/otp"
	"github.com/ErlanBelekov/travel-buddy/internal/session"
	"github.com/ErlanBelekov/travel-buddy/internal/storage"
	"github.com/ErlanBelekov/travel-buddy/internal/throttle"
	httptransport "github.com/ErlanBelekov/travel-buddy/internal/transport/http"
	"github.com/ErlanBelekov/travel-buddy/internal/transport/http/handler"
	"github.com/ErlanBelekov/travel-buddy/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	deps := map[string]health.Pinger{"postgres": pool}

	// Resend throttling
	var limiter usecase.ResendLimiter = throttle.Unlimited{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			stop()
			log.Fatalf("redis url: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		limiter = throttle.NewRedisCooldown(rdb, "", cfg.ResendCooldown)
		deps["redis"] = health.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	} else {
		logger.Warn("REDIS_URL not set, otp resend is not throttled")
	}

	// Ticket storage
	var blobs usecase.BlobSink
	if cfg.S3AccessKey != "" {
		blobs, err = storage.NewMinIOSink(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
		if err != nil {
			stop()
			log.Fatalf("storage: %v", err)
		}
	} else {
		logger.Warn("S3_ACCESS_KEY not set, tickets are kept in memory")
		blobs = storage.NewMemorySink()
	}

	// Accounts
	accountRepo := postgres.NewAccountRepository(pool)
	notifier := email.NewOTPNotifier(email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger), cfg.NotifyTimeout)
	authUsecase := usecase.NewAuthUsecase(
		accountRepo,
		credential.NewHasher(cfg.HashCost()),
		otp.NewGenerator(),
		notifier,
		session.NewJWTIssuer([]byte(cfg.JWTSecret), cfg.SessionTTL),
		limiter,
		logger,
	)
	authHandler := handler.NewAuthHandler(authUsecase, logger)
	profileHandler := handler.NewProfileHandler(usecase.NewProfileUsecase(accountRepo), logger)

	// Tickets
	ticketRepo := postgres.NewTicketRepository(pool)
	ticketHandler := handler.NewTicketHandler(usecase.NewTicketUsecase(ticketRepo, blobs), logger)

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(deps, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, authHandler, profileHandler, ticketHandler, []byte(cfg.JWTSecret)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env, "hash_cost", cfg.HashCost())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
