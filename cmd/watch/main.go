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

	"github.com/aurum-app/aurum/internal/pricefeed"
	"github.com/aurum-app/aurum/internal/sharedcache"
	"github.com/aurum-app/aurum/pkg/logger"
)

// watch follows the live price feed from a terminal through the shared
// cache, the same consumer path the web UI uses.
func main() {
	app := &cli.App{
		Name:  "aurum-watch",
		Usage: "Follow the live gold/silver price feed from a terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "price-api-url", Aliases: []string{"u"}, Usage: "Price provider URL", Required: true},
			&cli.DurationFlag{Name: "poll-interval", Aliases: []string{"i"}, Usage: "Refresh interval", Value: 60 * time.Second},
			&cli.DurationFlag{Name: "timeout", Aliases: []string{"t"}, Usage: "Provider request timeout", Value: 30 * time.Second},
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
	logg, err := logger.NewLogger(false)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	feed := pricefeed.NewClient(c.String("price-api-url"), c.Duration("timeout"), logg)
	cache := sharedcache.New(feed, c.Duration("poll-interval"), logg)

	unsubscribe := cache.Subscribe(func(s sharedcache.State) {
		switch {
		case s.Err != "" && s.Data != nil:
			fmt.Printf("%s (last update %s)\n", s.Err, s.LastUpdated.Format(time.Kitchen))
		case s.Loading && s.Data == nil:
			fmt.Println("Fetching prices...")
		case s.Data != nil && !s.Loading:
			fmt.Printf("Gold $%.2f/oz  Silver $%.2f/oz  (%s, updated %s)\n",
				s.Data.GoldPrice, s.Data.SilverPrice, s.Data.Currency, s.LastUpdated.Format(time.Kitchen))
		}
	})
	defer unsubscribe()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cache.ForceRefresh(ctx); err != nil {
		logg.Warn("Initial refresh failed: ", err)
	}

	<-ctx.Done()
	return nil
}
