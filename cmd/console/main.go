package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/api"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/availability"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/catalog"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/config"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/console"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/db"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/directory"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/metrics"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/notify"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/roster"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("PETCAFE_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	database, err := db.New(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer database.Close()

	var employees directory.Directory = database
	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		employees = directory.NewCached(database, rdb, cfg.DirectoryCacheTTL())
	}

	var notifier *notify.Notifier
	if cfg.Telegram.BotToken != "" && len(cfg.Telegram.ManagerChatIDs) > 0 {
		sender, err := notify.NewTelegramSender(cfg.Telegram.BotToken)
		if err != nil {
			logger.Fatal().Err(err).Msg("create telegram sender error")
		}
		notifier = notify.New(sender, cfg.Telegram.ManagerChatIDs, &logger)
	}

	var capacity availability.CapacityChecker
	if fullTimes := cfg.CapacityFullTimes(); len(fullTimes) > 0 {
		full := make(availability.FixedFullSlots, len(fullTimes))
		for _, t := range fullTimes {
			full[t] = true
		}
		capacity = full
	}

	svc := console.New(
		catalog.New(database, &logger),
		roster.New(database, &logger),
		database,
		employees,
		availability.New(time.Now, capacity),
		notifier,
		&logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go db.NewBackup(cfg.Database.Path, cfg.Database.Backup, &logger).Run(ctx)

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewServer(svc, &logger).Handler(),
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = apiSrv.Shutdown(ctxShutdown)
	}()
	go func() {
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("api server error")
		}
	}()

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, database, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	logger.Info().Msg("scheduling console started")
	<-ctx.Done()
	logger.Info().Msg("shutting down")
}

func startHealthServer(ctx context.Context, port int, database *db.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := database.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
