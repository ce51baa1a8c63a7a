package main

import (
	"context"
	"flag"
	"log"
	"time"

	"telegram-gateway/internal/config"
	tele "telegram-gateway/internal/infra/adapters/telegram"
	"telegram-gateway/internal/infra/logging"
	"telegram-gateway/internal/infra/redis"
	"telegram-gateway/internal/usecase"
)

// This script prepares a live bot for manual end-to-end testing: it checks
// the configured dependencies, registers the webhook and optionally sends a
// smoke message.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	token := flag.String("token", "e2e", "token echoed back by the webhook registration")
	chat := flag.String("chat", "", "chat id or @channel to send a smoke message to (optional)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	log.Println("--- Starting E2E Environment Setup ---")

	// 1. Redis is only needed by the redis send throttle.
	log.Println("[1/4] Checking Redis...")
	if cfg.RateLimit.Backend == "redis" {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisClient.Close()
	} else {
		log.Printf("ratelimit.backend=%s, skipping", cfg.RateLimit.Backend)
	}

	// 2. Reach Telegram with the configured token.
	log.Println("[2/4] Calling getMe...")
	bot, err := tele.NewBotGateway(&cfg.Telegram, logger)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	me, err := bot.Me(ctx)
	if err != nil {
		log.Fatalf("getMe: %v", err)
	}
	log.Printf("bot: @%s (id=%d)", me.Username, me.ID)

	// 3. Point Telegram at this deployment.
	log.Println("[3/4] Registering webhook...")
	uc := usecase.NewTelegramUseCase(bot, nil, cfg.Telegram.PublicBaseURL, logger)
	reg, err := uc.SetWebhook(ctx, *token)
	if err != nil {
		log.Fatalf("setWebhook: %v", err)
	}
	log.Printf("webhook: %s", reg.WebhookURL)

	log.Println("[4/4] (Optional) Sending smoke message...")
	if *chat != "" {
		if err := uc.SendMessage(ctx, *chat, "e2e smoke test from @"+me.Username); err != nil {
			log.Fatalf("sendMessage: %v", err)
		}
	}

	log.Println("--- E2E Environment Setup Complete ---")
}
