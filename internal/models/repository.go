package models

// SubscriptionRepository is the durable registry of push subscriptions.
type SubscriptionRepository interface {
	// Get returns the current subscriptions. It never fails: a broken
	// backing file is logged and treated as an empty registry.
	Get() []PushSubscription

	// Add validates and appends a subscription. Adding an endpoint that
	// already exists is a no-op. Returns ErrInvalidEndpoint or
	// ErrStoreFull on policy failures, or a persistence error.
	Add(sub PushSubscription) error

	// Remove deletes the subscription with the given endpoint. Removing
	// an endpoint that is not present is not an error.
	Remove(endpoint string) error

	// RemoveAll deletes every listed endpoint in one serialized mutation.
	RemoveAll(endpoints []string) error

	// Count returns the number of stored subscriptions.
	Count() int

	Close() error
}
