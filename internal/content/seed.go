package content

import (
	"fmt"
	"log"

	"github.com/gosimple/slug"
	"github.com/mathpath/backend/internal/models"
)

type seedExercise struct {
	kind       string
	difficulty string
	prompt     string
	choices    []models.Choice
	answer     string
}

type seedLesson struct {
	title     string
	body      string
	xpReward  int
	exercises []seedExercise
}

type seedModule struct {
	title   string
	lessons []seedLesson
}

type seedDiscipline struct {
	title       string
	description string
	modules     []seedModule
}

var seedCatalog = []seedDiscipline{
	{
		title:       "Arithmetic",
		description: "Whole numbers, the four operations and place value.",
		modules: []seedModule{
			{
				title: "Addition and Subtraction",
				lessons: []seedLesson{
					{
						title:    "Adding Within 20",
						body:     "When we add, we put groups together and count the total...",
						xpReward: 50,
						exercises: []seedExercise{
							{
								kind:       "multiple_choice",
								difficulty: models.DifficultyEasy,
								prompt:     "What is 7 + 8?",
								choices: []models.Choice{
									{ID: "A", Text: "14"}, {ID: "B", Text: "15"},
									{ID: "C", Text: "16"}, {ID: "D", Text: "17"},
								},
								answer: "B",
							},
							{
								kind:       "fill_in_blank",
								difficulty: models.DifficultyEasy,
								prompt:     "9 + 6 = ___",
								answer:     "15",
							},
						},
					},
					{
						title:    "Subtracting Within 20",
						body:     "Subtraction tells us how many are left when we take some away...",
						xpReward: 50,
						exercises: []seedExercise{
							{
								kind:       "multiple_choice",
								difficulty: models.DifficultyEasy,
								prompt:     "Lena has 14 stickers and gives away 6. How many does she keep?",
								choices: []models.Choice{
									{ID: "A", Text: "6"}, {ID: "B", Text: "7"},
									{ID: "C", Text: "8"}, {ID: "D", Text: "9"},
								},
								answer: "C",
							},
						},
					},
				},
			},
			{
				title: "Multiplication and Division",
				lessons: []seedLesson{
					{
						title:    "Multiplication as Equal Groups",
						body:     "Multiplying means adding the same number several times...",
						xpReward: 60,
						exercises: []seedExercise{
							{
								kind:       "multiple_choice",
								difficulty: models.DifficultyMedium,
								prompt:     "There are 4 bags with 6 oranges in each bag. How many oranges in total?",
								choices: []models.Choice{
									{ID: "A", Text: "10"}, {ID: "B", Text: "18"},
									{ID: "C", Text: "24"}, {ID: "D", Text: "26"},
								},
								answer: "C",
							},
							{
								kind:       "fill_in_blank",
								difficulty: models.DifficultyMedium,
								prompt:     "36 ÷ 4 = ___",
								answer:     "9",
							},
						},
					},
				},
			},
		},
	},
	{
		title:       "Fractions",
		description: "Parts of a whole, comparing and operating on fractions.",
		modules: []seedModule{
			{
				title: "Understanding Fractions",
				lessons: []seedLesson{
					{
						title:    "What Is a Fraction?",
						body:     "A fraction names part of a whole. The bottom number tells how many equal parts...",
						xpReward: 60,
						exercises: []seedExercise{
							{
								kind:       "multiple_choice",
								difficulty: models.DifficultyMedium,
								prompt:     "A pizza is cut into 8 equal slices and you eat 3. What fraction did you eat?",
								choices: []models.Choice{
									{ID: "A", Text: "3/8"}, {ID: "B", Text: "5/8"},
									{ID: "C", Text: "3/5"}, {ID: "D", Text: "8/3"},
								},
								answer: "A",
							},
							{
								kind:       "fill_in_blank",
								difficulty: models.DifficultyHard,
								prompt:     "Write 6/8 in its simplest form.",
								answer:     "3/4",
							},
						},
					},
				},
			},
		},
	},
}

// Seed inserts the starter catalog when the disciplines table is empty.
// Re-running against a seeded database is a no-op.
func Seed(store *Store) error {
	count, err := store.CountDisciplines()
	if err != nil {
		return fmt.Errorf("count disciplines: %w", err)
	}
	if count > 0 {
		return nil
	}

	lessonsSeeded := 0
	for di, d := range seedCatalog {
		disciplineID, err := store.InsertDiscipline(slug.Make(d.title), d.title, d.description, di)
		if err != nil {
			return err
		}
		for mi, m := range d.modules {
			moduleID, err := store.InsertModule(disciplineID, slug.Make(m.title), m.title, "", mi)
			if err != nil {
				return err
			}
			for li, l := range m.lessons {
				lessonID, err := store.InsertLesson(moduleID, slug.Make(l.title), l.title, l.body, li, l.xpReward)
				if err != nil {
					return err
				}
				for ei, ex := range l.exercises {
					if _, err := store.InsertExercise(lessonID, ex.kind, ex.difficulty, ex.prompt, ex.choices, ex.answer, ei); err != nil {
						return err
					}
				}
				lessonsSeeded++
			}
		}
	}

	log.Printf("[content] seeded catalog: %d disciplines, %d lessons", len(seedCatalog), lessonsSeeded)
	return nil
}
