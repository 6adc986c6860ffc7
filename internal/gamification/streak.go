package gamification

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/mathpath/backend/internal/models"
)

// ErrNonMonotonicCheckin is returned when a check-in date is earlier than
// the stored last check-in. Usually clock skew or a replayed request; the
// HTTP layer treats it as a no-op success rather than a hard failure.
var ErrNonMonotonicCheckin = errors.New("checkin date earlier than last recorded checkin")

// refLocation is the single platform-wide timezone whose calendar day
// bounds streaks. All users share it; streak days are not per-user local.
var refLocation = loadRefLocation()

func loadRefLocation() *time.Location {
	name := os.Getenv("STREAK_TIMEZONE")
	if name == "" {
		name = "America/Sao_Paulo"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[gamification] invalid STREAK_TIMEZONE %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// DayOf maps an instant to its calendar day in the reference timezone,
// normalized to midnight UTC so day arithmetic is DST-free.
func DayOf(t time.Time) time.Time {
	lt := t.In(refLocation)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
}

// advanceStreak applies one check-in day to a streak record in place.
// The day must come from DayOf, never from the client.
//
// Transitions keyed on the stored last check-in date:
//   - none        → streak starts at 1
//   - same day    → idempotent no-op
//   - next day    → increment
//   - gap ≥2 days → reset to 1, longest untouched
//   - earlier day → ErrNonMonotonicCheckin, no mutation
func advanceStreak(rec *models.StreakRecord, day time.Time) (didIncrement bool, err error) {
	if rec.LastCheckinDate == nil {
		rec.CurrentStreak = 1
		if rec.LongestStreak < 1 {
			rec.LongestStreak = 1
		}
		rec.LastCheckinDate = &day
		return true, nil
	}

	last := *rec.LastCheckinDate
	switch {
	case day.Equal(last):
		return false, nil
	case day.Equal(last.AddDate(0, 0, 1)):
		rec.CurrentStreak++
		if rec.CurrentStreak > rec.LongestStreak {
			rec.LongestStreak = rec.CurrentStreak
		}
		rec.LastCheckinDate = &day
		return true, nil
	case day.After(last):
		// Missed at least one full day.
		rec.CurrentStreak = 1
		rec.LastCheckinDate = &day
		return true, nil
	default:
		return false, ErrNonMonotonicCheckin
	}
}
