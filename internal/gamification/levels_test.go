package gamification

import "testing"

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int64
	}{
		{1, 0},
		{2, 100},
		{3, 300},
		{4, 600},
		{5, 1000},
		{10, 4500},
	}

	for _, tt := range tests {
		got := XPForLevel(tt.level)
		if got != tt.want {
			t.Errorf("XPForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		totalXP int64
		want    int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{240, 2},
		{299, 2},
		{300, 3},
		{599, 3},
		{600, 4},
		{4500, 10},
	}

	for _, tt := range tests {
		got := LevelForXP(tt.totalXP)
		if got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.totalXP, got, tt.want)
		}
	}

	// Negative totals clamp to level 1
	if got := LevelForXP(-10); got != 1 {
		t.Errorf("LevelForXP(-10) = %d, want 1", got)
	}
}

func TestLevelThresholdsRoundTrip(t *testing.T) {
	// Exactly at each threshold the level flips; one XP below it doesn't.
	for level := 2; level <= 50; level++ {
		threshold := XPForLevel(level)
		if got := LevelForXP(threshold); got != level {
			t.Errorf("LevelForXP(XPForLevel(%d)) = %d, want %d", level, got, level)
		}
		if got := LevelForXP(threshold - 1); got != level-1 {
			t.Errorf("LevelForXP(%d) = %d, want %d", threshold-1, got, level-1)
		}
	}
}

func TestLevelMonotonicInXP(t *testing.T) {
	prev := 0
	for xp := int64(0); xp <= 5000; xp += 7 {
		level := LevelForXP(xp)
		if level < prev {
			t.Fatalf("level decreased from %d to %d at xp=%d", prev, level, xp)
		}
		prev = level
	}
}

func TestXPToNextLevel(t *testing.T) {
	tests := []struct {
		totalXP int64
		want    int64
	}{
		{0, 100},
		{50, 50},   // level 1, 50 short of the 100 threshold
		{100, 200}, // level 2, threshold for 3 is 300
		{240, 60},
	}

	for _, tt := range tests {
		got := XPToNextLevel(tt.totalXP)
		if got != tt.want {
			t.Errorf("XPToNextLevel(%d) = %d, want %d", tt.totalXP, got, tt.want)
		}
	}
}
