package models

import "context"

// DispatchResult is the aggregate outcome of one notification fan-out.
type DispatchResult struct {
	// Success is true iff at least one delivery succeeded.
	Success bool `json:"success"`
	// Sent is the number of successful deliveries.
	Sent int `json:"-"`
	// Failed is the number of failed deliveries, pruned endpoints included.
	Failed int `json:"-"`
	// Message describes the outcome on success.
	Message string `json:"message,omitempty"`
	// Error describes the outcome on failure.
	Error string `json:"error,omitempty"`
}

// NotificationService sends a message to every stored subscription.
type NotificationService interface {
	Dispatch(ctx context.Context, message string) DispatchResult
}
