package content

import (
	"testing"

	"github.com/mathpath/backend/internal/models"
)

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		submitted string
		stored    string
		match     bool
	}{
		{"B", "B", true},
		{" b ", "B", true},
		{"15", "15", true},
		{" 15", "15", true},
		{"3/4", "3/4", true},
		{"1/2", "2/4", false},
		{"16", "15", false},
		{"", "15", false},
	}

	for _, tt := range tests {
		got := normalizeAnswer(tt.submitted) == normalizeAnswer(tt.stored)
		if got != tt.match {
			t.Errorf("normalizeAnswer(%q) vs %q: got match=%v, want %v",
				tt.submitted, tt.stored, got, tt.match)
		}
	}
}

func TestExerciseXPByDifficulty(t *testing.T) {
	tests := []struct {
		difficulty string
		want       int
	}{
		{models.DifficultyEasy, 10},
		{models.DifficultyMedium, 15},
		{models.DifficultyHard, 25},
	}

	for _, tt := range tests {
		if got := exerciseXP[tt.difficulty]; got != tt.want {
			t.Errorf("exerciseXP[%s] = %d, want %d", tt.difficulty, got, tt.want)
		}
	}

	// Harder bands must always pay more
	if exerciseXP[models.DifficultyEasy] >= exerciseXP[models.DifficultyMedium] {
		t.Error("easy should pay less than medium")
	}
	if exerciseXP[models.DifficultyMedium] >= exerciseXP[models.DifficultyHard] {
		t.Error("medium should pay less than hard")
	}
}

func TestXPForAttempt_OnlyMarkerWinnerPays(t *testing.T) {
	// Two submits of the same correct answer: exactly one claims the
	// first-correct marker, so exactly one pays out.
	winner := xpForAttempt(models.DifficultyMedium, true)
	loser := xpForAttempt(models.DifficultyMedium, false)

	if winner != 15 {
		t.Errorf("marker winner paid %d, want 15", winner)
	}
	if loser != 0 {
		t.Errorf("marker loser paid %d, want 0", loser)
	}
	if winner+loser != 15 {
		t.Errorf("pair paid %d total, want exactly one award of 15", winner+loser)
	}
}

func TestXPForAttempt_UnknownDifficultyFallsBackToEasy(t *testing.T) {
	if got := xpForAttempt("bonus", true); got != exerciseXP[models.DifficultyEasy] {
		t.Errorf("xpForAttempt(bonus, true) = %d, want easy-band %d", got, exerciseXP[models.DifficultyEasy])
	}
}

func TestXPForAttempt_IncorrectNeverPays(t *testing.T) {
	for _, d := range []string{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		if got := xpForAttempt(d, false); got != 0 {
			t.Errorf("xpForAttempt(%s, false) = %d, want 0", d, got)
		}
	}
}

func TestValidDifficulty(t *testing.T) {
	for _, d := range []string{"easy", "medium", "hard"} {
		if !validDifficulty(d) {
			t.Errorf("expected %q to be valid", d)
		}
	}
	for _, d := range []string{"", "EASY", "impossible", "medium "} {
		if validDifficulty(d) {
			t.Errorf("expected %q to be invalid", d)
		}
	}
}
