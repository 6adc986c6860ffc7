package gamification

import "github.com/mathpath/backend/internal/models"

// AchievementDef is one entry of the static achievement catalog.
type AchievementDef struct {
	Type        string
	Title       string
	Description string
	Criteria    func(ctx models.EvalContext) bool
}

// Catalog is the static achievement catalog. Order matters: the
// evaluator walks it top to bottom and unlocks in this declared order.
var Catalog = []AchievementDef{
	{"first_lesson", "First Steps", "Complete your first lesson",
		func(c models.EvalContext) bool { return c.LessonsCompleted >= 1 }},
	{"learning_bronze", "Curious Mind", "Complete 5 lessons",
		func(c models.EvalContext) bool { return c.LessonsCompleted >= 5 }},
	{"learning_silver", "Dedicated Student", "Complete 20 lessons",
		func(c models.EvalContext) bool { return c.LessonsCompleted >= 20 }},
	{"learning_gold", "Module Master", "Complete 50 lessons",
		func(c models.EvalContext) bool { return c.LessonsCompleted >= 50 }},

	{"first_exercise", "Warming Up", "Answer your first exercise",
		func(c models.EvalContext) bool { return c.ExercisesAnswered >= 1 }},
	{"practice_bronze", "Problem Solver", "Answer 25 exercises correctly",
		func(c models.EvalContext) bool { return c.ExercisesCorrect >= 25 }},
	{"practice_silver", "Number Cruncher", "Answer 100 exercises correctly",
		func(c models.EvalContext) bool { return c.ExercisesCorrect >= 100 }},
	{"practice_gold", "Math Machine", "Answer 500 exercises correctly",
		func(c models.EvalContext) bool { return c.ExercisesCorrect >= 500 }},
	{"perfect_score", "Flawless", "Solve an exercise correctly on the first try",
		func(c models.EvalContext) bool { return c.LastExercisePerfect }},

	{"first_checkin", "Early Bird", "Check in for the first time",
		func(c models.EvalContext) bool { return c.CheckinsTotal >= 1 }},
	{"streak_3", "Getting Started", "3-day streak",
		func(c models.EvalContext) bool { return c.CurrentStreak >= 3 }},
	{"streak_7", "Week Warrior", "7-day streak",
		func(c models.EvalContext) bool { return c.CurrentStreak >= 7 }},
	{"streak_14", "Fortnight Fighter", "14-day streak",
		func(c models.EvalContext) bool { return c.CurrentStreak >= 14 }},
	{"streak_30", "Monthly Master", "30-day streak",
		func(c models.EvalContext) bool { return c.CurrentStreak >= 30 }},
	{"streak_100", "Centurion", "100-day streak",
		func(c models.EvalContext) bool { return c.CurrentStreak >= 100 }},

	{"xp_1000", "Rising Star", "Earn 1,000 total XP",
		func(c models.EvalContext) bool { return c.TotalXP >= 1000 }},
	{"xp_10000", "Powerhouse", "Earn 10,000 total XP",
		func(c models.EvalContext) bool { return c.TotalXP >= 10000 }},
	{"xp_50000", "Legend", "Earn 50,000 total XP",
		func(c models.EvalContext) bool { return c.TotalXP >= 50000 }},
	{"level_5", "Climber", "Reach level 5",
		func(c models.EvalContext) bool { return c.Level >= 5 }},
	{"level_10", "High Achiever", "Reach level 10",
		func(c models.EvalContext) bool { return c.Level >= 10 }},
}

// catalogByType indexes the catalog for display lookups.
var catalogByType = func() map[string]AchievementDef {
	m := make(map[string]AchievementDef, len(Catalog))
	for _, def := range Catalog {
		m[def.Type] = def
	}
	return m
}()

// LookupAchievement returns the catalog entry for a type key.
func LookupAchievement(achievementType string) (AchievementDef, bool) {
	def, ok := catalogByType[achievementType]
	return def, ok
}
