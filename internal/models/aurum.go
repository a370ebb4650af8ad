package models

import "context"

// AurumI is the main application interface.
type AurumI interface {
	// Start runs the internal price-check scheduler until ctx is done.
	Start(ctx context.Context)

	// CheckPrices fetches the current prices, evaluates the change and
	// dispatches a notification when the move qualifies.
	CheckPrices(ctx context.Context) (*PriceSnapshot, error)

	// Snapshot returns the latest snapshot for the read endpoint,
	// refreshing it from the provider. When the refresh fails but a
	// cached snapshot exists, it is returned with stale set to true.
	Snapshot(ctx context.Context) (snapshot *PriceSnapshot, stale bool, err error)

	// Dispatch sends a message to every stored subscription.
	Dispatch(ctx context.Context, message string) DispatchResult

	// Subscribe registers a push subscription.
	Subscribe(sub PushSubscription) error

	// Unsubscribe removes a push subscription. Idempotent.
	Unsubscribe(endpoint string) error
}
