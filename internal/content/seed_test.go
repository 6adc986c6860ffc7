package content

import (
	"testing"

	"github.com/gosimple/slug"
)

func TestSeedCatalog_Consistency(t *testing.T) {
	disciplineSlugs := make(map[string]bool)

	for _, d := range seedCatalog {
		ds := slug.Make(d.title)
		if disciplineSlugs[ds] {
			t.Errorf("duplicate discipline slug %q", ds)
		}
		disciplineSlugs[ds] = true

		moduleSlugs := make(map[string]bool)
		for _, m := range d.modules {
			ms := slug.Make(m.title)
			if moduleSlugs[ms] {
				t.Errorf("discipline %q: duplicate module slug %q", d.title, ms)
			}
			moduleSlugs[ms] = true

			lessonSlugs := make(map[string]bool)
			for _, l := range m.lessons {
				ls := slug.Make(l.title)
				if lessonSlugs[ls] {
					t.Errorf("module %q: duplicate lesson slug %q", m.title, ls)
				}
				lessonSlugs[ls] = true

				if l.xpReward <= 0 {
					t.Errorf("lesson %q: xp reward must be positive, got %d", l.title, l.xpReward)
				}

				for _, ex := range l.exercises {
					if !validDifficulty(ex.difficulty) {
						t.Errorf("lesson %q: exercise has invalid difficulty %q", l.title, ex.difficulty)
					}
					if ex.answer == "" {
						t.Errorf("lesson %q: exercise %q has no answer", l.title, ex.prompt)
					}
					if ex.kind == "multiple_choice" {
						assertAnswerIsAChoice(t, l.title, ex)
					}
				}
			}
		}
	}
}

func assertAnswerIsAChoice(t *testing.T, lesson string, ex seedExercise) {
	t.Helper()

	if len(ex.choices) != 4 {
		t.Errorf("lesson %q: exercise %q has %d choices, want 4", lesson, ex.prompt, len(ex.choices))
		return
	}

	ids := make(map[string]bool)
	for _, c := range ex.choices {
		ids[c.ID] = true
	}
	if !ids[ex.answer] {
		t.Errorf("lesson %q: exercise %q answer %q is not a choice ID", lesson, ex.prompt, ex.answer)
	}
}

func TestSeedCatalog_SlugsAreURLSafe(t *testing.T) {
	titles := []string{"Addition and Subtraction", "What Is a Fraction?", "Frações e Decimais"}
	for _, title := range titles {
		s := slug.Make(title)
		if s == "" {
			t.Errorf("slug for %q is empty", title)
		}
		if s != slug.Make(s) {
			t.Errorf("slug %q is not stable under re-slugging", s)
		}
	}
}
