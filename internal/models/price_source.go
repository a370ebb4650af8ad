package models

import "context"

// PriceSource fetches the current metals prices and exchange rates from
// an external provider.
type PriceSource interface {
	Fetch(ctx context.Context) (*PriceSnapshot, error)
}
