// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"telegram-gateway/internal/config"
	"telegram-gateway/internal/domain/ports/adapter"
	"telegram-gateway/internal/infra/adapters/relay"
	tele "telegram-gateway/internal/infra/adapters/telegram"
	"telegram-gateway/internal/infra/api"
	"telegram-gateway/internal/infra/api/apiv1"
	"telegram-gateway/internal/infra/api/openapi"
	"telegram-gateway/internal/infra/logging"
	"telegram-gateway/internal/infra/metrics"
	"telegram-gateway/internal/infra/ratelimit"
	red "telegram-gateway/internal/infra/redis"
	"telegram-gateway/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (fall back to a no-op bot when Telegram is unreachable)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	if _, err := openapi.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("openapi document")
	}

	// ---- Telegram ----
	var bot adapter.BotGateway
	gw, err := tele.NewBotGateway(&cfg.Telegram, logger)
	switch {
	case err == nil:
		bot = gw
	case cfg.Runtime.Dev:
		logger.Warn().Err(err).Msg("telegram unreachable; using no-op bot gateway")
		bot = tele.NewNoopBotGateway("", logger)
	default:
		logger.Fatal().Err(err).Str("token", logging.Redact(cfg.Telegram.Token, false)).Msg("telegram")
	}

	// ---- Send throttle ----
	limiter, closeLimiter := newLimiter(ctx, cfg, logger)
	defer closeLimiter()

	// ---- Use cases ----
	telegramUC := usecase.NewTelegramUseCase(bot, limiter, cfg.Telegram.PublicBaseURL, logger)
	relayUC := usecase.NewRelayUseCase(
		relay.NewHTTPRelay(cfg.Relay.Timeout, logger),
		usecase.RelayOptions{PropagateStatus: cfg.Relay.PropagateStatus, AllowedHosts: cfg.Relay.AllowedHosts},
		logger,
	)

	// ---- HTTP server ----
	v1 := apiv1.NewServer(telegramUC, relayUC, cfg.Relay.MaxBodyBytes, logger)
	server := api.NewHTTPServer(cfg.HTTP, api.NewRouter(cfg.HTTP, v1, logger))
	go func() {
		logger.Info().Str("addr", server.Addr).Str("prefix", cfg.HTTP.Prefix).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}

// newLimiter builds the configured send throttle. The returned func releases
// any connection it holds.
func newLimiter(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (adapter.RateLimiter, func()) {
	switch cfg.RateLimit.Backend {
	case "memory":
		logger.Info().Float64("per_second", cfg.RateLimit.PerSecond).Int("burst", cfg.RateLimit.Burst).Msg("send throttle: memory")
		return ratelimit.NewMemory(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst), func() {}
	case "redis":
		client, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		logger.Info().Int("limit", cfg.RateLimit.Limit).Dur("window", cfg.RateLimit.Window).Msg("send throttle: redis")
		return red.NewRateLimiter(client, cfg.RateLimit.Limit, cfg.RateLimit.Window), func() { _ = client.Close() }
	default:
		return ratelimit.Nop{}, func() {}
	}
}
