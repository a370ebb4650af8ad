package notificator

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"

	"github.com/aurum-app/aurum/internal/models"
	"github.com/aurum-app/aurum/pkg/logger"
)

// PushSender delivers one web-push message to a single subscription.
// It returns the push provider's HTTP status code when one was received.
type PushSender interface {
	Send(ctx context.Context, sub models.PushSubscription, message string) (statusCode int, err error)
}

// Notificator fans a message out to every stored subscription. Delivery
// attempts run concurrently and all settle before the aggregate result
// is computed; a failing subscriber never blocks the others. Endpoints
// the provider reports as gone are pruned from the store afterwards.
type Notificator struct {
	logger *logger.Logger
	repo   models.SubscriptionRepository

	push     PushSender
	telegram *TelegramNotificator
}

// NewNotificator creates a notificator. telegram may be nil when the
// broadcast channel is not configured.
func NewNotificator(logger *logger.Logger, repo models.SubscriptionRepository, push PushSender, telegram *TelegramNotificator) *Notificator {
	return &Notificator{logger: logger, repo: repo, push: push, telegram: telegram}
}

// safeCall runs a function with panic recovery
func (n *Notificator) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Function panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

type outcome struct {
	ok    bool
	prune bool
}

// Dispatch sends message to every stored subscription.
func (n *Notificator) Dispatch(ctx context.Context, message string) models.DispatchResult {
	subs := n.repo.Get()
	if len(subs) == 0 {
		return models.DispatchResult{Success: false, Error: "No subscriptions available"}
	}

	outcomes := make([]outcome, len(subs))
	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub models.PushSubscription) {
			defer wg.Done()
			n.safeCall(func() {
				status, err := n.push.Send(ctx, sub, message)
				if err == nil {
					outcomes[i] = outcome{ok: true}
					return
				}
				// 410 Gone and 404 Not Found mean the endpoint is
				// permanently dead; anything else is transient.
				prune := status == http.StatusGone || status == http.StatusNotFound
				outcomes[i] = outcome{prune: prune}
				n.logger.Warn("Push delivery failed ", "endpoint ", sub.Endpoint, " status ", status, " error ", err)
			}, "webpushDelivery")
		}(i, sub)
	}
	wg.Wait()

	sent, failed := 0, 0
	var dead []string
	for i, o := range outcomes {
		if o.ok {
			sent++
			continue
		}
		failed++
		if o.prune {
			dead = append(dead, subs[i].Endpoint)
		}
	}

	if len(dead) > 0 {
		n.logger.Info("Pruning dead push endpoints ", "count ", len(dead))
		if err := n.repo.RemoveAll(dead); err != nil {
			n.logger.Error("Failed to prune dead endpoints: ", err)
		}
	}

	if n.telegram != nil {
		n.safeCall(func() { n.telegram.Broadcast(ctx, message) }, "telegramBroadcast")
	}

	return models.DispatchResult{
		Success: sent > 0,
		Sent:    sent,
		Failed:  failed,
		Message: fmt.Sprintf("Notifications sent to %d subscribers (%d failed)", sent, failed),
	}
}
