package detector

import (
	"math"
	"sync"
	"time"

	"github.com/aurum-app/aurum/internal/models"
)

// Detector decides whether a newly observed price is worth a
// notification, given a percentage threshold and a cooldown window
// between notifications.
type Detector struct {
	mu                 sync.Mutex
	lastObservedPrice  *float64
	lastNotificationAt time.Time

	threshold float64
	cooldown  time.Duration

	now func() time.Time
}

// New creates a detector. threshold is the minimum absolute percentage
// change that qualifies; cooldown is the minimum gap between two
// notifications.
func New(threshold float64, cooldown time.Duration) *Detector {
	return &Detector{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Evaluate records the observed price and decides whether to notify.
// The last observed price is always updated; the notification timestamp
// only when the decision is positive. The very first observation never
// notifies.
func (d *Detector) Evaluate(newPrice float64) models.PriceEvaluation {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lastObservedPrice == nil {
		d.lastObservedPrice = &newPrice
		return models.PriceEvaluation{Direction: models.DirectionIncreased}
	}

	// Capture the previous price before mutating state: direction and
	// change are relative to it.
	previous := *d.lastObservedPrice
	d.lastObservedPrice = &newPrice

	var changePercent float64
	if previous == 0 {
		// Any move away from zero qualifies; avoid the division.
		if newPrice != 0 {
			changePercent = 100
		}
	} else {
		changePercent = math.Abs(newPrice-previous) / previous * 100
	}

	// An unchanged price reports "increased". Kept intentionally; see
	// DESIGN.md.
	direction := models.DirectionIncreased
	if newPrice < previous {
		direction = models.DirectionDecreased
	}

	now := d.now()
	shouldNotify := changePercent >= d.threshold &&
		now.Sub(d.lastNotificationAt) > d.cooldown
	if shouldNotify {
		d.lastNotificationAt = now
	}

	return models.PriceEvaluation{
		ShouldNotify:  shouldNotify,
		Direction:     direction,
		ChangePercent: changePercent,
	}
}
