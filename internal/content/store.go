package content

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mathpath/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Catalog ─────────────────────────────────────────────

func (s *Store) ListDisciplines() ([]models.Discipline, error) {
	rows, err := s.db.Query(
		`SELECT d.id, d.slug, d.title, d.description, d.position,
		        (SELECT COUNT(*) FROM modules m WHERE m.discipline_id = d.id),
		        d.created_at
		 FROM disciplines d
		 ORDER BY d.position, d.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list disciplines: %w", err)
	}
	defer rows.Close()

	disciplines := []models.Discipline{}
	for rows.Next() {
		var d models.Discipline
		if err := rows.Scan(&d.ID, &d.Slug, &d.Title, &d.Description, &d.Position,
			&d.ModuleCount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan discipline: %w", err)
		}
		disciplines = append(disciplines, d)
	}
	return disciplines, rows.Err()
}

func (s *Store) GetDisciplineBySlug(slug string) (*models.Discipline, error) {
	var d models.Discipline
	err := s.db.QueryRow(
		`SELECT d.id, d.slug, d.title, d.description, d.position,
		        (SELECT COUNT(*) FROM modules m WHERE m.discipline_id = d.id),
		        d.created_at
		 FROM disciplines d WHERE d.slug = $1`,
		slug,
	).Scan(&d.ID, &d.Slug, &d.Title, &d.Description, &d.Position, &d.ModuleCount, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get discipline: %w", err)
	}
	return &d, nil
}

func (s *Store) ListModules(disciplineID int64) ([]models.Module, error) {
	rows, err := s.db.Query(
		`SELECT m.id, m.discipline_id, m.slug, m.title, m.description, m.position,
		        (SELECT COUNT(*) FROM lesson_pages lp WHERE lp.module_id = m.id),
		        m.created_at
		 FROM modules m
		 WHERE m.discipline_id = $1
		 ORDER BY m.position, m.id`,
		disciplineID,
	)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	mods := []models.Module{}
	for rows.Next() {
		var m models.Module
		if err := rows.Scan(&m.ID, &m.DisciplineID, &m.Slug, &m.Title, &m.Description,
			&m.Position, &m.LessonCount, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		mods = append(mods, m)
	}
	return mods, rows.Err()
}

// ListLessons returns the lesson pages of a module with the user's
// completion flag joined in.
func (s *Store) ListLessons(moduleID, userID int64) ([]models.LessonPage, error) {
	rows, err := s.db.Query(
		`SELECT lp.id, lp.module_id, lp.slug, lp.title, lp.body, lp.position, lp.xp_reward,
		        lc.id IS NOT NULL, lp.created_at
		 FROM lesson_pages lp
		 LEFT JOIN lesson_completions lc ON lc.lesson_id = lp.id AND lc.user_id = $1
		 WHERE lp.module_id = $2
		 ORDER BY lp.position, lp.id`,
		userID, moduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.LessonPage{}
	for rows.Next() {
		var l models.LessonPage
		if err := rows.Scan(&l.ID, &l.ModuleID, &l.Slug, &l.Title, &l.Body, &l.Position,
			&l.XPReward, &l.Completed, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (s *Store) GetLesson(lessonID int64) (*models.LessonPage, error) {
	var l models.LessonPage
	err := s.db.QueryRow(
		`SELECT id, module_id, slug, title, body, position, xp_reward, created_at
		 FROM lesson_pages WHERE id = $1`,
		lessonID,
	).Scan(&l.ID, &l.ModuleID, &l.Slug, &l.Title, &l.Body, &l.Position, &l.XPReward, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	return &l, nil
}

func (s *Store) ListExercises(lessonID int64) ([]models.Exercise, error) {
	rows, err := s.db.Query(
		`SELECT id, lesson_id, kind, difficulty, prompt, choices, answer, position, created_at
		 FROM exercises WHERE lesson_id = $1
		 ORDER BY position, id`,
		lessonID,
	)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	exercises := []models.Exercise{}
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *ex)
	}
	return exercises, rows.Err()
}

func (s *Store) GetExercise(exerciseID int64) (*models.Exercise, error) {
	row := s.db.QueryRow(
		`SELECT id, lesson_id, kind, difficulty, prompt, choices, answer, position, created_at
		 FROM exercises WHERE id = $1`,
		exerciseID,
	)
	return scanExercise(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var ex models.Exercise
	var choicesJSON []byte
	if err := row.Scan(&ex.ID, &ex.LessonID, &ex.Kind, &ex.Difficulty, &ex.Prompt,
		&choicesJSON, &ex.Answer, &ex.Position, &ex.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan exercise: %w", err)
	}
	if len(choicesJSON) > 0 {
		if err := json.Unmarshal(choicesJSON, &ex.Choices); err != nil {
			return nil, fmt.Errorf("decode exercise choices: %w", err)
		}
	}
	return &ex, nil
}

// ── Activity ────────────────────────────────────────────

// RecordCompletion marks a lesson complete for a user. Returns false when
// the user had already completed it.
func (s *Store) RecordCompletion(userID, lessonID int64) (bool, error) {
	res, err := s.db.Exec(
		`INSERT INTO lesson_completions (user_id, lesson_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, lesson_id) DO NOTHING`,
		userID, lessonID,
	)
	if err != nil {
		return false, fmt.Errorf("record completion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record completion rows: %w", err)
	}
	return n == 1, nil
}

func (s *Store) RecordAttempt(userID, exerciseID int64, answer string, correct bool) error {
	_, err := s.db.Exec(
		`INSERT INTO exercise_attempts (user_id, exercise_id, answer, correct)
		 VALUES ($1, $2, $3, $4)`,
		userID, exerciseID, answer, correct,
	)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// CountPriorAttempts reports how many attempts the user already made on
// one exercise.
func (s *Store) CountPriorAttempts(userID, exerciseID int64) (int, error) {
	var attempts int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM exercise_attempts
		 WHERE user_id = $1 AND exercise_id = $2`,
		userID, exerciseID,
	).Scan(&attempts)
	if err != nil {
		return 0, fmt.Errorf("count prior attempts: %w", err)
	}
	return attempts, nil
}

// MarkFirstCorrect claims the one-time first-correct marker for an
// exercise. The primary key serializes concurrent submits of the same
// correct answer: only the insert that lands reports true, so the XP
// award cannot double-count.
func (s *Store) MarkFirstCorrect(userID, exerciseID int64) (bool, error) {
	res, err := s.db.Exec(
		`INSERT INTO exercise_first_correct (user_id, exercise_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, exercise_id) DO NOTHING`,
		userID, exerciseID,
	)
	if err != nil {
		return false, fmt.Errorf("mark first correct: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark first correct rows: %w", err)
	}
	return n == 1, nil
}

// ── Drafts ──────────────────────────────────────────────

func (s *Store) InsertDraft(d *models.ExerciseDraft) error {
	choicesJSON, err := json.Marshal(d.Choices)
	if err != nil {
		return fmt.Errorf("encode draft choices: %w", err)
	}
	err = s.db.QueryRow(
		`INSERT INTO exercise_drafts (skill, difficulty, prompt, choices, answer, explanation, status, model_used)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		d.Skill, d.Difficulty, d.Prompt, choicesJSON, d.Answer, d.Explanation, d.Status, d.ModelUsed,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (s *Store) ListDrafts(status string, limit, offset int) ([]models.ExerciseDraft, error) {
	rows, err := s.db.Query(
		`SELECT id, skill, difficulty, prompt, choices, answer, explanation, status,
		        COALESCE(model_used, ''), created_at, reviewed_at
		 FROM exercise_drafts
		 WHERE status = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		status, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	drafts := []models.ExerciseDraft{}
	for rows.Next() {
		var d models.ExerciseDraft
		var choicesJSON []byte
		if err := rows.Scan(&d.ID, &d.Skill, &d.Difficulty, &d.Prompt, &choicesJSON,
			&d.Answer, &d.Explanation, &d.Status, &d.ModelUsed, &d.CreatedAt, &d.ReviewedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		if len(choicesJSON) > 0 {
			if err := json.Unmarshal(choicesJSON, &d.Choices); err != nil {
				return nil, fmt.Errorf("decode draft choices: %w", err)
			}
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

// ReviewDraft moves a pending draft to approved or rejected. Returns false
// when the draft does not exist or was already reviewed.
func (s *Store) ReviewDraft(draftID int64, status string) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE exercise_drafts
		 SET status = $1, reviewed_at = NOW()
		 WHERE id = $2 AND status = $3`,
		status, draftID, models.DraftPending,
	)
	if err != nil {
		return false, fmt.Errorf("review draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("review draft rows: %w", err)
	}
	return n == 1, nil
}

// ── Seeding ─────────────────────────────────────────────

func (s *Store) CountDisciplines() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM disciplines`).Scan(&count)
	return count, err
}

func (s *Store) InsertDiscipline(slug, title, description string, position int) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO disciplines (slug, title, description, position)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title
		 RETURNING id`,
		slug, title, description, position,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert discipline: %w", err)
	}
	return id, nil
}

func (s *Store) InsertModule(disciplineID int64, slug, title, description string, position int) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO modules (discipline_id, slug, title, description, position)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (discipline_id, slug) DO UPDATE SET title = EXCLUDED.title
		 RETURNING id`,
		disciplineID, slug, title, description, position,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert module: %w", err)
	}
	return id, nil
}

func (s *Store) InsertLesson(moduleID int64, slug, title, body string, position, xpReward int) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO lesson_pages (module_id, slug, title, body, position, xp_reward)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (module_id, slug) DO UPDATE SET title = EXCLUDED.title
		 RETURNING id`,
		moduleID, slug, title, body, position, xpReward,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert lesson: %w", err)
	}
	return id, nil
}

func (s *Store) InsertExercise(lessonID int64, kind, difficulty, prompt string, choices []models.Choice, answer string, position int) (int64, error) {
	choicesJSON, err := json.Marshal(choices)
	if err != nil {
		return 0, fmt.Errorf("encode choices: %w", err)
	}
	var id int64
	err = s.db.QueryRow(
		`INSERT INTO exercises (lesson_id, kind, difficulty, prompt, choices, answer, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		lessonID, kind, difficulty, prompt, choicesJSON, answer, position,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert exercise: %w", err)
	}
	return id, nil
}
