package gamification

import (
	"testing"

	"github.com/mathpath/backend/internal/models"
)

func TestCatalogTypesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range Catalog {
		if seen[def.Type] {
			t.Errorf("duplicate achievement type %q", def.Type)
		}
		seen[def.Type] = true
		if def.Title == "" || def.Description == "" {
			t.Errorf("achievement %q missing display text", def.Type)
		}
		if def.Criteria == nil {
			t.Errorf("achievement %q has no criteria", def.Type)
		}
	}
}

func TestFreshUserQualifiesForNothing(t *testing.T) {
	for _, def := range Catalog {
		if def.Criteria(models.EvalContext{Level: 1}) {
			t.Errorf("fresh user should not qualify for %q", def.Type)
		}
	}
}

func qualified(ctx models.EvalContext) []string {
	var types []string
	for _, def := range Catalog {
		if def.Criteria(ctx) {
			types = append(types, def.Type)
		}
	}
	return types
}

func TestFirstLessonCriteria(t *testing.T) {
	got := qualified(models.EvalContext{Level: 1, LessonsCompleted: 1})
	if len(got) != 1 || got[0] != "first_lesson" {
		t.Errorf("qualified = %v, want [first_lesson]", got)
	}
}

func TestStreakCriteriaTiers(t *testing.T) {
	tests := []struct {
		streak int
		want   int // number of streak_* achievements met
	}{
		{1, 0},
		{3, 1},
		{7, 2},
		{14, 3},
		{30, 4},
		{100, 5},
	}

	for _, tt := range tests {
		count := 0
		for _, typ := range qualified(models.EvalContext{Level: 1, CurrentStreak: tt.streak}) {
			switch typ {
			case "streak_3", "streak_7", "streak_14", "streak_30", "streak_100":
				count++
			}
		}
		if count != tt.want {
			t.Errorf("streak=%d: %d streak achievements met, want %d", tt.streak, count, tt.want)
		}
	}
}

func TestXPAndLevelCriteria(t *testing.T) {
	ctx := models.EvalContext{TotalXP: 1000, Level: 5}
	got := qualified(ctx)

	want := map[string]bool{"xp_1000": true, "level_5": true}
	for _, typ := range got {
		if !want[typ] {
			t.Errorf("unexpected qualification %q for %+v", typ, ctx)
		}
		delete(want, typ)
	}
	for typ := range want {
		t.Errorf("expected %q to qualify for %+v", typ, ctx)
	}
}

func TestPerfectScoreCriteria(t *testing.T) {
	ctx := models.EvalContext{Level: 1, ExercisesAnswered: 1, ExercisesCorrect: 1, LastExercisePerfect: true}
	got := qualified(ctx)

	found := false
	for _, typ := range got {
		if typ == "perfect_score" {
			found = true
		}
	}
	if !found {
		t.Errorf("perfect_score not in %v", got)
	}
}

func TestCatalogOrderLessonTiersAscend(t *testing.T) {
	// Tiered achievements must unlock in declared (ascending) order so one
	// evaluation emits them bronze-first.
	order := map[string]int{}
	for i, def := range Catalog {
		order[def.Type] = i
	}
	if !(order["first_lesson"] < order["learning_bronze"] &&
		order["learning_bronze"] < order["learning_silver"] &&
		order["learning_silver"] < order["learning_gold"]) {
		t.Error("lesson achievements out of tier order in catalog")
	}
	if !(order["streak_3"] < order["streak_7"] && order["streak_7"] < order["streak_100"]) {
		t.Error("streak achievements out of tier order in catalog")
	}
}

func TestLookupAchievement(t *testing.T) {
	def, ok := LookupAchievement("first_lesson")
	if !ok || def.Title != "First Steps" {
		t.Errorf("LookupAchievement(first_lesson) = %+v, %v", def, ok)
	}
	if _, ok := LookupAchievement("no_such_type"); ok {
		t.Error("LookupAchievement should miss unknown types")
	}
}
