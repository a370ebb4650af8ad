package detector

import (
	"testing"
	"time"

	"github.com/aurum-app/aurum/internal/models"
)

func newTestDetector(threshold float64, cooldown time.Duration) (*Detector, *time.Time) {
	d := New(threshold, cooldown)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return current }
	return d, &current
}

func TestFirstObservationNeverNotifies(t *testing.T) {
	d, _ := newTestDetector(0.25, 3*time.Hour)

	eval := d.Evaluate(2500)
	if eval.ShouldNotify {
		t.Error("first observation should not notify")
	}
	if eval.ChangePercent != 0 {
		t.Errorf("first observation change = %v, want 0", eval.ChangePercent)
	}
}

func TestThresholdBoundary(t *testing.T) {
	tests := []struct {
		name       string
		newPrice   float64
		wantNotify bool
	}{
		{"exactly at threshold", 100.25, true},
		{"just below threshold", 100.24, false},
		{"well above threshold", 110, true},
		{"no change", 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDetector(0.25, 3*time.Hour)
			d.Evaluate(100)

			eval := d.Evaluate(tt.newPrice)
			if eval.ShouldNotify != tt.wantNotify {
				t.Errorf("Evaluate(%v) shouldNotify = %v, want %v", tt.newPrice, eval.ShouldNotify, tt.wantNotify)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		name     string
		newPrice float64
		want     string
	}{
		{"price rose", 110, models.DirectionIncreased},
		{"price fell", 90, models.DirectionDecreased},
		{"price unchanged reports increased", 100, models.DirectionIncreased},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDetector(0.25, 3*time.Hour)
			d.Evaluate(100)

			eval := d.Evaluate(tt.newPrice)
			if eval.Direction != tt.want {
				t.Errorf("Evaluate(%v) direction = %q, want %q", tt.newPrice, eval.Direction, tt.want)
			}
		})
	}
}

func TestDirectionComputedFromPreviousPrice(t *testing.T) {
	d, _ := newTestDetector(0.25, 3*time.Hour)
	d.Evaluate(100)
	d.Evaluate(110)

	// Previous price is now 110; 105 is a decrease even though it is
	// above the original 100.
	eval := d.Evaluate(105)
	if eval.Direction != models.DirectionDecreased {
		t.Errorf("direction = %q, want %q", eval.Direction, models.DirectionDecreased)
	}
}

func TestCooldownEnforcement(t *testing.T) {
	d, now := newTestDetector(0.25, 3*time.Hour)
	d.Evaluate(100)

	// First qualifying jump notifies.
	if eval := d.Evaluate(110); !eval.ShouldNotify {
		t.Fatal("first qualifying jump should notify")
	}

	// Second qualifying jump inside the cooldown window does not.
	*now = now.Add(time.Hour)
	if eval := d.Evaluate(120); eval.ShouldNotify {
		t.Error("jump within cooldown should not notify")
	}

	// A qualifying jump after the window has elapsed notifies again.
	*now = now.Add(3 * time.Hour)
	if eval := d.Evaluate(130); !eval.ShouldNotify {
		t.Error("jump after cooldown should notify")
	}
}

func TestLastObservedAlwaysUpdates(t *testing.T) {
	d, _ := newTestDetector(0.25, 3*time.Hour)
	d.Evaluate(100)
	d.Evaluate(110) // notifies, cooldown starts

	// This one is suppressed by the cooldown but still recorded: the
	// next change is measured against 120, not 110.
	d.Evaluate(120)
	eval := d.Evaluate(120)
	if eval.ChangePercent != 0 {
		t.Errorf("change = %v, want 0 (previous price should be 120)", eval.ChangePercent)
	}
}

func TestZeroPreviousPrice(t *testing.T) {
	d, _ := newTestDetector(0.25, 3*time.Hour)
	d.Evaluate(0)

	eval := d.Evaluate(2500)
	if !eval.ShouldNotify {
		t.Error("any move away from zero should notify")
	}
	if eval.ChangePercent != 100 {
		t.Errorf("change = %v, want 100", eval.ChangePercent)
	}
}
