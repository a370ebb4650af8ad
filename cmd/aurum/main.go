package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/aurum-app/aurum/internal/aurum"
	"github.com/aurum-app/aurum/internal/config"
	"github.com/aurum-app/aurum/internal/detector"
	"github.com/aurum-app/aurum/internal/http_api"
	"github.com/aurum-app/aurum/internal/notificator"
	"github.com/aurum-app/aurum/internal/pricefeed"
	"github.com/aurum-app/aurum/internal/ratelimit"
	"github.com/aurum-app/aurum/internal/store"
	"github.com/aurum-app/aurum/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "aurum",
		Usage: "Aurum is a gold price notification service",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "api-port", Aliases: []string{"p"}, Usage: "API port"},
			&cli.StringFlag{Name: "store-backend", Aliases: []string{"s"}, Usage: "Subscription store backend (file or bolt)"},
			&cli.StringFlag{Name: "store-path", Aliases: []string{"f"}, Usage: "Subscription store path"},
			&cli.StringFlag{Name: "price-api-url", Aliases: []string{"u"}, Usage: "Price provider URL"},
			&cli.DurationFlag{Name: "check-interval", Aliases: []string{"i"}, Usage: "Internal price-check interval (0 disables)"},
			&cli.Float64Flag{Name: "change-threshold", Aliases: []string{"t"}, Usage: "Notification threshold in percent"},
			&cli.DurationFlag{Name: "notify-cooldown", Aliases: []string{"c"}, Usage: "Cooldown between notifications"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("store-backend") {
		cfg.StoreBackend = c.String("store-backend")
	}
	if c.IsSet("store-path") {
		cfg.StorePath = c.String("store-path")
	}
	if c.IsSet("price-api-url") {
		cfg.PriceAPIURL = c.String("price-api-url")
	}
	if c.IsSet("check-interval") {
		cfg.CheckInterval = c.Duration("check-interval")
	}
	if c.IsSet("change-threshold") {
		cfg.ChangeThreshold = c.Float64("change-threshold")
	}
	if c.IsSet("notify-cooldown") {
		cfg.NotifyCooldown = c.Duration("notify-cooldown")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Initialize subscription store
	repo, err := store.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open subscription store: %v", err)
	}
	defer repo.Close()

	// Initialize price feed client
	feed := pricefeed.NewClient(cfg.PriceAPIURL, cfg.PriceAPITimeout, log)

	// Initialize notification channels
	push := notificator.NewWebPushSender(log, cfg.VAPIDSubscriber, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	var telegram *notificator.TelegramNotificator
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		telegram, err = notificator.NewTelegramNotificator(log, cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram notificator: %v", err)
		}
	}
	notif := notificator.NewNotificator(log, repo, push, telegram)

	// Initialize change detector and rate limiter
	det := detector.New(cfg.ChangeThreshold, cfg.NotifyCooldown)
	limiter := ratelimit.New(cfg.RateLimitMaxKeys)

	// Create Aurum instance
	aurumApp := aurum.NewAurum(repo, feed, det, notif, log, cfg)

	apiServer := http_api.NewHTTPServer(aurumApp, cfg, limiter, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go apiServer.Start()
	// Start the application
	aurumApp.Start(ctx)

	if err := apiServer.Shutdown(); err != nil {
		log.Error("Shutdown error: ", err)
	}
	// Give in-flight dispatch goroutines a moment to finish logging.
	time.Sleep(100 * time.Millisecond)

	return nil
}
