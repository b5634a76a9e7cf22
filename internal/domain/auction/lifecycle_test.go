package auction_test

import (
	"testing"
	"time"

	"github.com/bidblab/bidblab-api/internal/domain/auction"
)

func TestClassify(t *testing.T) {
	starts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	closes := starts.Add(2 * time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want auction.Role
	}{
		{"well before start", starts.Add(-time.Hour), auction.RolePending},
		{"instant before start", starts.Add(-time.Nanosecond), auction.RolePending},
		{"exactly at start", starts, auction.RoleProcessing},
		{"mid window", starts.Add(time.Hour), auction.RoleProcessing},
		{"instant before close", closes.Add(-time.Nanosecond), auction.RoleProcessing},
		{"exactly at close", closes, auction.RoleClosed},
		{"after close", closes.Add(time.Hour), auction.RoleClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := auction.Classify(tt.now, starts, closes); got != tt.want {
				t.Errorf("Classify(%v) = %d, want %d", tt.now, got, tt.want)
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	starts := time.Now().Add(time.Hour)
	closes := starts.Add(time.Hour)
	now := time.Now()

	first := auction.Classify(now, starts, closes)
	second := auction.Classify(now, starts, closes)
	if first != second {
		t.Fatalf("classification not idempotent: %d then %d", first, second)
	}
}

// Roles only ever advance pending -> processing -> closed as the clock moves forward.
func TestClassifyMonotonic(t *testing.T) {
	starts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	closes := starts.Add(time.Hour)

	order := map[auction.Role]int{
		auction.RolePending:    0,
		auction.RoleProcessing: 1,
		auction.RoleClosed:     2,
	}

	previous := -1
	for now := starts.Add(-time.Hour); now.Before(closes.Add(time.Hour)); now = now.Add(5 * time.Minute) {
		current := order[auction.Classify(now, starts, closes)]
		if current < previous {
			t.Fatalf("role went backward at %v", now)
		}
		previous = current
	}
}
