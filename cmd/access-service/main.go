package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nevskyi/chat-access-service/internal/config"
	deliveryhttp "github.com/nevskyi/chat-access-service/internal/delivery/http"
	"github.com/nevskyi/chat-access-service/internal/delivery/http/handlers"
	deliverytg "github.com/nevskyi/chat-access-service/internal/delivery/telegram"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/kafka"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/metrics"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/payments"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/payments/cactuspay"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/payments/cryptobot"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/sqlite"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/sqlite/repository"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/telegram"
	"github.com/nevskyi/chat-access-service/internal/jobs"
	"github.com/nevskyi/chat-access-service/internal/tariffs"
	"github.com/nevskyi/chat-access-service/internal/usecase/fulfillment"
	"github.com/nevskyi/chat-access-service/internal/usecase/order"
	"github.com/nevskyi/chat-access-service/internal/usecase/subscription"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg)

	// Init database
	db := sqlite.MustInitDB(cfg)

	// Metrics
	accessMetrics := metrics.NewAccessMetrics()

	// Payment providers
	registry := payments.NewRegistry(
		cryptobot.NewProvider(cfg.Payments.CryptobotToken),
		cactuspay.NewProvider(cfg.Payments.CactuspayAPIKey),
	)

	// Telegram
	tgClient := telegram.NewClient(cfg.Telegram.BotToken)
	chatGateway := telegram.NewGateway(tgClient, cfg.Telegram.TargetChatID)

	location, err := time.LoadLocation(cfg.Telegram.Timezone)
	if err != nil {
		log.Printf("unknown timezone %q, falling back to UTC", cfg.Telegram.Timezone)
		location = time.UTC
	}

	// Kafka (опционально)
	var publisher *kafka.AccessEventPublisher
	if cfg.Kafka.Enabled {
		publisher = kafka.NewAccessEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// Init repositories
	orderRepo := repository.NewDefaultOrderRepository(db)
	subRepo := repository.NewDefaultSubscriptionRepository(db)
	userRepo := repository.NewDefaultUserRepository(db)

	tariffCatalog := tariffs.Default()

	// Init usecases
	fulfillmentService := fulfillment.NewDefaultFulfillmentService(
		orderRepo,
		subRepo,
		userRepo,
		chatGateway,
		tariffCatalog,
		publisher,
		accessMetrics,
		cfg.Telegram.AdminIDs,
		time.Duration(cfg.Telegram.InviteTTLMinutes)*time.Minute,
		location,
	)
	orderUsecase := order.NewDefaultOrderUsecase(
		orderRepo,
		registry,
		tariffCatalog,
		fulfillmentService,
		publisher,
		accessMetrics,
		time.Duration(cfg.Orders.TTLMinutes)*time.Minute,
	)
	subscriptionUsecase := subscription.NewDefaultSubscriptionUsecase(
		subRepo,
		chatGateway,
		publisher,
		accessMetrics,
	)

	// Background loops
	scheduler := jobs.NewScheduler(orderUsecase, subscriptionUsecase, accessMetrics)
	if err := scheduler.Start(context.Background()); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	// Membership watcher: отзыв доступа покинувшим чат
	watcher := deliverytg.NewMembershipWatcher(tgClient, cfg.Telegram.TargetChatID, subscriptionUsecase)
	go watcher.Run(context.Background())

	// HTTP: вебхуки платежек + метрики
	webhookHandler := handlers.NewWebhookHandler(
		orderUsecase,
		registry,
		fulfillmentService,
		accessMetrics,
		cfg.Payments.WebhookSecret,
	)
	router := deliveryhttp.NewRouter(webhookHandler)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("HTTP server started on %s\n", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}

func setupLogger(cfg *config.AccessConfig) {
	var level slog.Level
	switch cfg.LogConfig.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogConfig.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
