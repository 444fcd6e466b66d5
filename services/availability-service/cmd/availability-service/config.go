package main

import (
	"time"

	"github.com/md-rashed-zaman/artisanslots/libs/config"
)

type serviceConfig struct {
	Service        string
	Port           string
	GRPCPort       string
	LogLevel       string
	DatabaseURL    string
	DBMaxConns     int
	AutoMigrate    bool
	Region         *time.Location
	SlotMinutes    int
	HorizonDays    int
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RatePerMinute  int
	RateFailOpen   bool
	CORSOrigins    []string
	RequestTimeout time.Duration
}

func loadConfig() (serviceConfig, error) {
	var (
		cfg serviceConfig
		err error
	)
	cfg.Service = config.String("SERVICE_NAME", "availability-service")
	cfg.LogLevel = config.String("LOG_LEVEL", "info")
	if cfg.Port, err = config.Port("PORT", "8084"); err != nil {
		return cfg, err
	}
	if config.String("GRPC_PORT", "") != "" {
		if cfg.GRPCPort, err = config.Port("GRPC_PORT", ""); err != nil {
			return cfg, err
		}
	}
	if cfg.DatabaseURL, err = config.RequiredString("DATABASE_URL"); err != nil {
		return cfg, err
	}
	if cfg.DBMaxConns, err = config.Int("DB_MAX_CONNS", 10, 1, 200); err != nil {
		return cfg, err
	}
	cfg.AutoMigrate = config.Bool("DB_AUTO_MIGRATE", false)
	if cfg.Region, err = config.UTCOffset("REGION_UTC_OFFSET", "+00:00"); err != nil {
		return cfg, err
	}
	if cfg.SlotMinutes, err = config.Int("SLOT_DURATION_MINUTES", 60, 5, 720); err != nil {
		return cfg, err
	}
	if cfg.HorizonDays, err = config.Int("DEFAULT_ADVANCE_BOOKING_DAYS", 30, 1, 730); err != nil {
		return cfg, err
	}
	cfg.RedisAddr = config.String("REDIS_ADDR", "")
	cfg.RedisPassword = config.String("REDIS_PASSWORD", "")
	if cfg.RedisDB, err = config.Int("REDIS_DB", 0, 0, 15); err != nil {
		return cfg, err
	}
	if cfg.RatePerMinute, err = config.Int("RATE_LIMIT_PER_MINUTE", 120, 0, 100000); err != nil {
		return cfg, err
	}
	cfg.RateFailOpen = config.Bool("RATE_LIMIT_FAIL_OPEN", true)
	cfg.CORSOrigins = config.List("CORS_ALLOWED_ORIGINS", "")
	cfg.RequestTimeout = config.Seconds("REQUEST_TIMEOUT_SECONDS", 10*time.Second)
	return cfg, nil
}
