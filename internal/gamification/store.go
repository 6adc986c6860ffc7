package gamification

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mathpath/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── XP Ledger ───────────────────────────────────────────

// GetOrCreateXP lazily creates the ledger row with zeroed defaults.
// Operating on an unknown user is never an error.
func (s *Store) GetOrCreateXP(userID int64) (*models.UserXP, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_xp (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert user_xp: %w", err)
	}

	var xp models.UserXP
	err = s.db.QueryRow(
		`SELECT user_id, total_xp, created_at, updated_at
		 FROM user_xp WHERE user_id = $1`,
		userID,
	).Scan(&xp.UserID, &xp.TotalXP, &xp.CreatedAt, &xp.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user_xp: %w", err)
	}
	return &xp, nil
}

// AddXP atomically increments the total and returns the new value.
// The database increment is the serialization point for concurrent awards.
func (s *Store) AddXP(userID int64, amount int) (int64, error) {
	var total int64
	err := s.db.QueryRow(
		`UPDATE user_xp SET total_xp = total_xp + $2, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING total_xp`,
		userID, amount,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("add xp: %w", err)
	}
	return total, nil
}

func (s *Store) LogXPEvent(userID int64, reason string, amount int, relatedID *int64) error {
	_, err := s.db.Exec(
		`INSERT INTO xp_events (user_id, reason, amount, related_id)
		 VALUES ($1, $2, $3, $4)`,
		userID, reason, amount, relatedID,
	)
	return err
}

// ListXPEvents returns the newest audit entries for a user.
func (s *Store) ListXPEvents(userID int64, limit int) ([]models.XPEvent, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, reason, amount, related_id, created_at
		 FROM xp_events WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list xp events: %w", err)
	}
	defer rows.Close()

	events := []models.XPEvent{}
	for rows.Next() {
		var e models.XPEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Reason, &e.Amount, &e.RelatedID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan xp event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ── Streak Records ──────────────────────────────────────

func (s *Store) GetOrCreateStreak(userID int64) (*models.StreakRecord, error) {
	_, err := s.db.Exec(
		`INSERT INTO streak_records (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert streak_records: %w", err)
	}

	var rec models.StreakRecord
	err = s.db.QueryRow(
		`SELECT user_id, current_streak, longest_streak, last_checkin_date, created_at, updated_at
		 FROM streak_records WHERE user_id = $1`,
		userID,
	).Scan(&rec.UserID, &rec.CurrentStreak, &rec.LongestStreak,
		&rec.LastCheckinDate, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get streak_records: %w", err)
	}
	return &rec, nil
}

func (s *Store) UpdateStreak(rec *models.StreakRecord) error {
	_, err := s.db.Exec(
		`UPDATE streak_records SET
		    current_streak = $2, longest_streak = $3, last_checkin_date = $4,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		rec.UserID, rec.CurrentStreak, rec.LongestStreak, rec.LastCheckinDate,
	)
	return err
}

// ── Achievement Unlocks ─────────────────────────────────

// InsertUnlock records an unlock at most once per (user, type). Returns
// whether this call inserted the row; a conflict means a concurrent call
// already unlocked it, which is benign.
func (s *Store) InsertUnlock(userID int64, achievementType string) (bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO unlocked_achievements (user_id, achievement_type)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, achievement_type) DO NOTHING`,
		userID, achievementType,
	)
	if err != nil {
		return false, fmt.Errorf("insert unlock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *Store) ListUnlocks(userID int64) ([]models.UnlockedAchievement, error) {
	rows, err := s.db.Query(
		`SELECT user_id, achievement_type, unlocked_at
		 FROM unlocked_achievements WHERE user_id = $1
		 ORDER BY unlocked_at, achievement_type`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []models.UnlockedAchievement
	for rows.Next() {
		var u models.UnlockedAchievement
		if err := rows.Scan(&u.UserID, &u.AchievementType, &u.UnlockedAt); err != nil {
			return nil, err
		}
		unlocks = append(unlocks, u)
	}
	if unlocks == nil {
		unlocks = []models.UnlockedAchievement{}
	}
	return unlocks, rows.Err()
}

// UnlockedSet returns the user's unlocked types as a lookup set.
func (s *Store) UnlockedSet(userID int64) (map[string]bool, error) {
	unlocks, err := s.ListUnlocks(userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(unlocks))
	for _, u := range unlocks {
		set[u.AchievementType] = true
	}
	return set, nil
}

// ── Activity Counts (for the evaluator context) ─────────

func (s *Store) CountLessonCompletions(userID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM lesson_completions WHERE user_id = $1`,
		userID,
	).Scan(&count)
	return count, err
}

func (s *Store) CountExerciseAttempts(userID int64) (answered, correct int, err error) {
	err = s.db.QueryRow(
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE correct)
		 FROM exercise_attempts WHERE user_id = $1`,
		userID,
	).Scan(&answered, &correct)
	return answered, correct, err
}

// ── Admin Reset ─────────────────────────────────────────

// ResetUser wipes a user's ledger, streak, audit trail, and unlocks in one
// transaction. Running it twice is a no-op the second time.
func (s *Store) ResetUser(userID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM xp_events WHERE user_id = $1`,
		`DELETE FROM unlocked_achievements WHERE user_id = $1`,
		`DELETE FROM streak_records WHERE user_id = $1`,
		`DELETE FROM user_xp WHERE user_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt, userID); err != nil {
			return fmt.Errorf("reset user %d: %w", userID, err)
		}
	}
	return tx.Commit()
}

// lastCheckinString formats a nullable check-in date for responses.
func lastCheckinString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
