package aurum

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aurum-app/aurum/internal/config"
	"github.com/aurum-app/aurum/internal/detector"
	"github.com/aurum-app/aurum/internal/models"
	"github.com/aurum-app/aurum/pkg/logger"
)

// Aurum is the main struct for the Aurum application
// It ties the price feed, the change detector, the notificator and the
// subscription store together and serves all business logic
type Aurum struct {
	logger *logger.Logger
	config *config.Config

	repo        models.SubscriptionRepository
	feed        models.PriceSource
	detector    *detector.Detector
	notificator models.NotificationService

	mu           sync.RWMutex
	lastSnapshot *models.PriceSnapshot
}

// NewAurum creates a new Aurum instance
func NewAurum(
	repo models.SubscriptionRepository,
	feed models.PriceSource,
	det *detector.Detector,
	notificator models.NotificationService,
	logger *logger.Logger,
	config *config.Config,
) models.AurumI {
	return &Aurum{
		repo:        repo,
		feed:        feed,
		detector:    det,
		notificator: notificator,
		logger:      logger,
		config:      config,
	}
}

// Start runs the internal price-check scheduler. It is a no-op when
// CHECK_INTERVAL is zero (external cron drives checks instead).
func (a *Aurum) Start(ctx context.Context) {
	if a.config.CheckInterval <= 0 {
		a.logger.Info("Internal scheduler disabled, price checks are cron-driven")
		<-ctx.Done()
		return
	}

	a.logger.Info("Starting price-check scheduler ", "interval ", a.config.CheckInterval)
	ticker := time.NewTicker(a.config.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.CheckPrices(ctx); err != nil {
				a.logger.Error("Scheduled price check failed: ", err)
			}
		}
	}
}

// CheckPrices fetches the current prices, runs the change detector on
// the gold price and dispatches a notification when the move qualifies.
// The detector is never fed a value when the fetch fails.
func (a *Aurum) CheckPrices(ctx context.Context) (*models.PriceSnapshot, error) {
	snapshot, err := a.feed.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}

	a.mu.Lock()
	a.lastSnapshot = snapshot
	a.mu.Unlock()

	a.evaluate(ctx, snapshot)
	return snapshot, nil
}

// Snapshot returns the latest snapshot for the read endpoint. The
// refresh applies the same evaluate-and-maybe-notify side effect; on
// refresh failure a cached snapshot is served stale.
func (a *Aurum) Snapshot(ctx context.Context) (*models.PriceSnapshot, bool, error) {
	snapshot, err := a.CheckPrices(ctx)
	if err == nil {
		return snapshot, false, nil
	}

	a.mu.RLock()
	cached := a.lastSnapshot
	a.mu.RUnlock()
	if cached != nil {
		a.logger.Warn("Serving stale snapshot after refresh failure: ", err)
		return cached, true, nil
	}
	return nil, false, err
}

// Dispatch sends a message to every stored subscription.
func (a *Aurum) Dispatch(ctx context.Context, message string) models.DispatchResult {
	return a.notificator.Dispatch(ctx, message)
}

// Subscribe registers a push subscription.
func (a *Aurum) Subscribe(sub models.PushSubscription) error {
	return a.repo.Add(sub)
}

// Unsubscribe removes a push subscription. Idempotent.
func (a *Aurum) Unsubscribe(endpoint string) error {
	return a.repo.Remove(endpoint)
}

// evaluate runs the detector and, on a qualifying move, dispatches the
// notification fire-and-forget so the caller's response is not held up
// by push fan-out.
func (a *Aurum) evaluate(ctx context.Context, snapshot *models.PriceSnapshot) {
	eval := a.detector.Evaluate(snapshot.GoldPrice)
	if !eval.ShouldNotify {
		return
	}

	message := fmt.Sprintf("Gold price %s by %.2f%%! Current price: $%.2f/oz",
		eval.Direction, eval.ChangePercent, snapshot.GoldPrice)
	a.logger.Info("Price move qualifies for notification ", "direction ", eval.Direction, " change ", eval.ChangePercent)

	dispatchCtx := context.WithoutCancel(ctx)
	go func() {
		result := a.notificator.Dispatch(dispatchCtx, message)
		if result.Success {
			a.logger.Info("Price notification dispatched ", "sent ", result.Sent, " failed ", result.Failed)
		} else {
			a.logger.Warn("Price notification not delivered ", "message ", result.Message, " error ", result.Error)
		}
	}()
}
