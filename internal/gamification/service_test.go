package gamification

import (
	"errors"
	"testing"
)

func TestAwardXPRejectsNonPositiveAmounts(t *testing.T) {
	// Validation runs before any store access, so no database is needed.
	svc := NewService(nil)

	for _, amount := range []int{0, -1, -500} {
		result, err := svc.AwardXP(1, amount, "lesson_completed", nil)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("AwardXP(amount=%d): got err %v, want ErrInvalidAmount", amount, err)
		}
		if result != nil {
			t.Errorf("AwardXP(amount=%d): got result %+v, want nil", amount, result)
		}
	}
}

func TestLevelWindow(t *testing.T) {
	tests := []struct {
		name          string
		previousTotal int64
		newTotal      int64
		previousLevel int
		newLevel      int
		leveledUp     bool
	}{
		{"first award stays level 1", 0, 50, 1, 1, false},
		{"crossing the level 2 threshold", 90, 240, 1, 2, true},
		{"landing exactly on a threshold", 50, 100, 1, 2, true},
		{"within one level", 150, 250, 2, 2, false},
		{"multi-level jump in one award", 0, 1000, 1, 5, true},
		{"already high, small award", 4500, 4550, 10, 10, false},
	}

	for _, tt := range tests {
		prev, next, up := levelWindow(tt.previousTotal, tt.newTotal)
		if prev != tt.previousLevel || next != tt.newLevel || up != tt.leveledUp {
			t.Errorf("%s: levelWindow(%d, %d) = (%d, %d, %v), want (%d, %d, %v)",
				tt.name, tt.previousTotal, tt.newTotal,
				prev, next, up, tt.previousLevel, tt.newLevel, tt.leveledUp)
		}
	}
}

func TestLevelWindowConsistentWithLevelForXP(t *testing.T) {
	// The window must agree with the canonical derivation at every step
	// of a long award sequence.
	var total int64
	for _, amount := range []int64{10, 50, 40, 150, 300, 1000, 25, 9000} {
		prev, next, up := levelWindow(total, total+amount)
		if prev != LevelForXP(total) {
			t.Fatalf("previousLevel for total %d: got %d, want %d", total, prev, LevelForXP(total))
		}
		if next != LevelForXP(total+amount) {
			t.Fatalf("newLevel for total %d: got %d, want %d", total+amount, next, LevelForXP(total+amount))
		}
		if up != (next > prev) {
			t.Fatalf("leveledUp for %d→%d: got %v", total, total+amount, up)
		}
		total += amount
	}
}

func TestClampHistoryLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{0, 50},
		{-5, 50},
		{1, 1},
		{25, 25},
		{100, 100},
		{101, 50},
	}
	for _, tt := range tests {
		if got := clampHistoryLimit(tt.limit); got != tt.want {
			t.Errorf("clampHistoryLimit(%d) = %d, want %d", tt.limit, got, tt.want)
		}
	}
}
