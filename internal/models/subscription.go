package models

import "errors"

// SubscriptionKeys are the client credentials used to encrypt push payloads.
type SubscriptionKeys struct {
	// P256dh is the client's public encryption key.
	P256dh string `json:"p256dh" binding:"required"`
	// Auth is the client's authentication secret.
	Auth string `json:"auth" binding:"required"`
}

// PushSubscription represents one registered notification endpoint.
type PushSubscription struct {
	// Endpoint is the opaque URL identifying the subscriber's push channel.
	// It is unique within the store.
	Endpoint string `json:"endpoint" binding:"required"`
	// Keys holds the credentials for this subscriber.
	Keys SubscriptionKeys `json:"keys" binding:"required"`
}

var (
	// ErrInvalidEndpoint is returned when a subscription endpoint fails
	// the push provider allow-list policy.
	ErrInvalidEndpoint = errors.New("invalid subscription endpoint")
	// ErrStoreFull is returned when the subscription store is at capacity.
	ErrStoreFull = errors.New("subscription limit reached")
)
