package gamification

import (
	"errors"
	"testing"
	"time"

	"github.com/mathpath/backend/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceStreakFirstCheckin(t *testing.T) {
	rec := &models.StreakRecord{UserID: 1}

	inc, err := advanceStreak(rec, day(2026, 3, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inc {
		t.Error("first checkin should increment")
	}
	if rec.CurrentStreak != 1 || rec.LongestStreak != 1 {
		t.Errorf("got current=%d longest=%d, want 1/1", rec.CurrentStreak, rec.LongestStreak)
	}
}

func TestAdvanceStreakSameDayIdempotent(t *testing.T) {
	rec := &models.StreakRecord{UserID: 1}
	d := day(2026, 3, 1)

	advanceStreak(rec, d)
	inc, err := advanceStreak(rec, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inc {
		t.Error("second checkin on the same day should not increment")
	}
	if rec.CurrentStreak != 1 {
		t.Errorf("current = %d, want 1", rec.CurrentStreak)
	}
}

func TestAdvanceStreakConsecutiveDays(t *testing.T) {
	rec := &models.StreakRecord{UserID: 1}

	for i := 0; i < 5; i++ {
		inc, err := advanceStreak(rec, day(2026, 3, 1+i))
		if err != nil {
			t.Fatalf("day %d: unexpected error: %v", i+1, err)
		}
		if !inc {
			t.Errorf("day %d: expected increment", i+1)
		}
	}
	if rec.CurrentStreak != 5 || rec.LongestStreak != 5 {
		t.Errorf("got current=%d longest=%d, want 5/5", rec.CurrentStreak, rec.LongestStreak)
	}
}

func TestAdvanceStreakGapResets(t *testing.T) {
	// Day 1, day 2, skip day 3, check in day 4.
	rec := &models.StreakRecord{UserID: 1}
	advanceStreak(rec, day(2026, 3, 1))
	advanceStreak(rec, day(2026, 3, 2))

	inc, err := advanceStreak(rec, day(2026, 3, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inc {
		t.Error("checkin after a gap should still count as today's checkin")
	}
	if rec.CurrentStreak != 1 {
		t.Errorf("current = %d, want 1 after gap", rec.CurrentStreak)
	}
	if rec.LongestStreak != 2 {
		t.Errorf("longest = %d, want 2 (gap must not touch it)", rec.LongestStreak)
	}
}

func TestAdvanceStreakMonthBoundary(t *testing.T) {
	rec := &models.StreakRecord{UserID: 1}
	advanceStreak(rec, day(2026, 2, 28))
	advanceStreak(rec, day(2026, 3, 1))

	if rec.CurrentStreak != 2 {
		t.Errorf("current = %d, want 2 across month boundary", rec.CurrentStreak)
	}
}

func TestAdvanceStreakNonMonotonic(t *testing.T) {
	rec := &models.StreakRecord{UserID: 1}
	advanceStreak(rec, day(2026, 3, 10))

	inc, err := advanceStreak(rec, day(2026, 3, 9))
	if !errors.Is(err, ErrNonMonotonicCheckin) {
		t.Fatalf("got err %v, want ErrNonMonotonicCheckin", err)
	}
	if inc {
		t.Error("non-monotonic checkin must not increment")
	}
	if rec.CurrentStreak != 1 || rec.LastCheckinDate == nil || !rec.LastCheckinDate.Equal(day(2026, 3, 10)) {
		t.Error("non-monotonic checkin must not mutate the record")
	}
}

func TestAdvanceStreakLongestNeverDecreases(t *testing.T) {
	rec := &models.StreakRecord{UserID: 1}
	days := []time.Time{
		day(2026, 1, 1), day(2026, 1, 2), day(2026, 1, 3), // streak 3
		day(2026, 1, 7),                  // reset
		day(2026, 1, 8), day(2026, 1, 9), // back to 3
		day(2026, 1, 20), // reset again
	}

	longest := 0
	for _, d := range days {
		if _, err := advanceStreak(rec, d); err != nil {
			t.Fatalf("unexpected error on %s: %v", d.Format("2006-01-02"), err)
		}
		if rec.LongestStreak < longest {
			t.Fatalf("longest decreased from %d to %d", longest, rec.LongestStreak)
		}
		longest = rec.LongestStreak
	}
	if longest != 3 {
		t.Errorf("longest = %d, want 3", longest)
	}
}

func TestDayOfNormalizesToMidnightUTC(t *testing.T) {
	d := DayOf(time.Now())
	h, m, sec := d.Clock()
	if h != 0 || m != 0 || sec != 0 {
		t.Errorf("DayOf returned non-midnight time %v", d)
	}
	if d.Location() != time.UTC {
		t.Errorf("DayOf location = %v, want UTC", d.Location())
	}
}

func TestDayOfStableWithinInstant(t *testing.T) {
	now := time.Date(2026, 6, 15, 17, 30, 0, 0, time.UTC)
	if !DayOf(now).Equal(DayOf(now.Add(time.Second))) {
		t.Error("DayOf should be stable for nearby instants")
	}
}
