package models

import "time"

// PriceSnapshot is one observation of the metals/rates feed.
type PriceSnapshot struct {
	// GoldPrice is the spot gold price per troy ounce.
	GoldPrice float64 `json:"gold_price"`
	// SilverPrice is the spot silver price per troy ounce.
	SilverPrice float64 `json:"silver_price"`
	// Currency is the quote currency of the prices (e.g., USD).
	Currency string `json:"currency"`
	// Rates maps currency codes to their exchange rate against Currency.
	Rates map[string]float64 `json:"rates"`
	// FetchedAt is when the snapshot was obtained from the provider.
	FetchedAt time.Time `json:"fetched_at"`
}

const (
	// DirectionIncreased reports a price that rose or stayed equal.
	DirectionIncreased = "increased"
	// DirectionDecreased reports a price that fell.
	DirectionDecreased = "decreased"
)

// PriceEvaluation is the decision produced for one observed price.
type PriceEvaluation struct {
	// ShouldNotify is true when the change qualifies for a notification.
	ShouldNotify bool `json:"should_notify"`
	// Direction is DirectionIncreased or DirectionDecreased.
	Direction string `json:"direction"`
	// ChangePercent is the absolute percentage change from the previous price.
	ChangePercent float64 `json:"change_percent"`
}
