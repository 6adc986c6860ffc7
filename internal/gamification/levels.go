package gamification

// Levels start at 1. Reaching the next level from level L costs L*100 XP,
// so the cumulative XP required to be at level L is 50*(L-1)*L:
//
//	level 1 →    0
//	level 2 →  100
//	level 3 →  300
//	level 4 →  600
//
// Level is always derived from total XP, never stored alongside it.

// XPForLevel returns the cumulative XP required to be at the given level.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	l := int64(level - 1)
	return 50 * l * (l + 1)
}

// LevelForXP derives the level from a cumulative XP total.
func LevelForXP(totalXP int64) int {
	if totalXP < 0 {
		return 1
	}
	level := 1
	for totalXP >= XPForLevel(level+1) {
		level++
	}
	return level
}

// XPToNextLevel returns how much XP is still needed to reach the next level.
func XPToNextLevel(totalXP int64) int64 {
	level := LevelForXP(totalXP)
	return XPForLevel(level+1) - totalXP
}
