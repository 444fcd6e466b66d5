package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/md-rashed-zaman/artisanslots/libs/db"
	"github.com/md-rashed-zaman/artisanslots/libs/grpcx"
	"github.com/md-rashed-zaman/artisanslots/libs/httpx"
	otelx "github.com/md-rashed-zaman/artisanslots/libs/otel"
	"github.com/md-rashed-zaman/artisanslots/libs/runtime"
	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/availability"
	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/handlers"
	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/storage"
	"github.com/md-rashed-zaman/artisanslots/services/availability-service/migrations"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		runtime.NewLogger("availability-service", "info").Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := runtime.NewLogger(cfg.Service, cfg.LogLevel)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(cfg.Service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL, db.Options{MaxConns: int32(cfg.DBMaxConns)})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := migrations.Apply(ctx, pool); err != nil {
			logger.Error("schema migration failed", "err", err)
			os.Exit(1)
		}
		logger.Info("schema applied")
	}

	checks := []runtime.ReadyCheck{{Name: "db", Check: db.ReadyCheck(pool)}}

	var rateLimitMW httpx.Middleware
	if cfg.RatePerMinute > 0 {
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			defer func() { _ = rdb.Close() }()

			rl := httpx.NewRedisRateLimiter(rdb, cfg.RatePerMinute, time.Minute, "rl:"+cfg.Service)
			rateLimitMW = rl.Middleware(logger, cfg.RateFailOpen)
			if !cfg.RateFailOpen {
				checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: httpx.RedisReadyCheck(rdb)})
			}
			logger.Info("rate limiting enabled (redis)", "per_minute", cfg.RatePerMinute, "redis_addr", cfg.RedisAddr)
		} else {
			rateLimitMW = httpx.NewRateLimiter(cfg.RatePerMinute, time.Minute).Middleware()
			logger.Info("rate limiting enabled (in-memory)", "per_minute", cfg.RatePerMinute)
		}
	}

	svc := availability.NewService(storage.NewRepository(pool), logger, availability.Config{
		SlotDurationMinutes:       cfg.SlotMinutes,
		DefaultAdvanceBookingDays: cfg.HorizonDays,
		Region:                    availability.NewRegion(cfg.Region),
		Clock:                     availability.SystemClock{},
	})

	mux := runtime.NewBaseMuxWithReady(checks...)
	handlers.NewAvailabilityHandler(svc, logger).Register(mux)

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: cfg.CORSOrigins,
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithRecover(logger),
		httpx.WithTimeout(cfg.RequestTimeout),
		rateLimitMW,
	)
	handler = otelhttp.NewHandler(handler, "availability")
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.GRPCPort != "" {
		gs := grpcx.NewServer(logger)
		gs.SetServing(cfg.Service)
		go func() {
			if err := gs.Serve(ctx, ":"+cfg.GRPCPort); err != nil {
				logger.Error("grpc server error", "err", err)
			}
		}()
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "region", cfg.Region.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
