package database

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "mathpath_user")
	password := getEnv("DB_PASSWORD", "mathpath_password")
	dbname := getEnv("DB_NAME", "mathpath")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		username VARCHAR(50) UNIQUE,
		password VARCHAR(255) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS disciplines (
		id          BIGSERIAL PRIMARY KEY,
		slug        VARCHAR(100) UNIQUE NOT NULL,
		title       VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		position    INT NOT NULL DEFAULT 0,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS modules (
		id            BIGSERIAL PRIMARY KEY,
		discipline_id BIGINT NOT NULL REFERENCES disciplines(id) ON DELETE CASCADE,
		slug          VARCHAR(100) NOT NULL,
		title         VARCHAR(255) NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		position      INT NOT NULL DEFAULT 0,
		created_at    TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(discipline_id, slug)
	);

	CREATE TABLE IF NOT EXISTS lesson_pages (
		id         BIGSERIAL PRIMARY KEY,
		module_id  BIGINT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		slug       VARCHAR(100) NOT NULL,
		title      VARCHAR(255) NOT NULL,
		body       TEXT NOT NULL DEFAULT '',
		position   INT NOT NULL DEFAULT 0,
		xp_reward  INT NOT NULL DEFAULT 50,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(module_id, slug)
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id         BIGSERIAL PRIMARY KEY,
		lesson_id  BIGINT NOT NULL REFERENCES lesson_pages(id) ON DELETE CASCADE,
		kind       VARCHAR(30) NOT NULL DEFAULT 'multiple_choice',
		difficulty VARCHAR(20) NOT NULL DEFAULT 'easy',
		prompt     TEXT NOT NULL,
		choices    JSONB,
		answer     TEXT NOT NULL,
		position   INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_exercises_lesson ON exercises(lesson_id, position);

	CREATE TABLE IF NOT EXISTS exercise_drafts (
		id          BIGSERIAL PRIMARY KEY,
		skill       VARCHAR(100) NOT NULL,
		difficulty  VARCHAR(20) NOT NULL,
		prompt      TEXT NOT NULL,
		choices     JSONB,
		answer      TEXT NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		status      VARCHAR(20) NOT NULL DEFAULT 'pending',
		model_used  VARCHAR(100),
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		reviewed_at TIMESTAMP WITH TIME ZONE
	);

	CREATE INDEX IF NOT EXISTS idx_drafts_status ON exercise_drafts(status);

	CREATE TABLE IF NOT EXISTS user_xp (
		user_id    BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		total_xp   BIGINT NOT NULL DEFAULT 0 CHECK (total_xp >= 0),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS xp_events (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		reason     VARCHAR(50) NOT NULL,
		amount     INT NOT NULL,
		related_id BIGINT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_xp_events_user ON xp_events(user_id, created_at);

	CREATE TABLE IF NOT EXISTS streak_records (
		user_id           BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		current_streak    INT NOT NULL DEFAULT 0,
		longest_streak    INT NOT NULL DEFAULT 0,
		last_checkin_date DATE,
		created_at        TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at        TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CHECK (longest_streak >= current_streak)
	);

	CREATE TABLE IF NOT EXISTS unlocked_achievements (
		id               BIGSERIAL PRIMARY KEY,
		user_id          BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		achievement_type VARCHAR(100) NOT NULL,
		unlocked_at      TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, achievement_type)
	);

	CREATE INDEX IF NOT EXISTS idx_unlocks_user ON unlocked_achievements(user_id);

	CREATE TABLE IF NOT EXISTS lesson_completions (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		lesson_id    BIGINT NOT NULL REFERENCES lesson_pages(id) ON DELETE CASCADE,
		completed_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, lesson_id)
	);

	CREATE INDEX IF NOT EXISTS idx_completions_user ON lesson_completions(user_id);

	CREATE TABLE IF NOT EXISTS exercise_attempts (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		exercise_id  BIGINT NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
		answer       TEXT NOT NULL,
		correct      BOOLEAN NOT NULL,
		attempted_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS exercise_first_correct (
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		exercise_id BIGINT NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
		solved_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (user_id, exercise_id)
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_user ON exercise_attempts(user_id, attempted_at);
	CREATE INDEX IF NOT EXISTS idx_attempts_user_correct ON exercise_attempts(user_id, correct);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Idempotent for databases created before these columns existed.
	alterStatements := []string{
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS username VARCHAR(50) UNIQUE`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS is_admin BOOLEAN NOT NULL DEFAULT FALSE`,
		`ALTER TABLE lesson_pages ADD COLUMN IF NOT EXISTS xp_reward INT NOT NULL DEFAULT 50`,
		`ALTER TABLE exercise_drafts ADD COLUMN IF NOT EXISTS model_used VARCHAR(100)`,
	}
	for _, stmt := range alterStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("alter table failed: %w", err)
		}
	}

	newIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_modules_discipline ON modules(discipline_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_lessons_module ON lesson_pages(module_id, position)`,
	}
	for _, stmt := range newIndexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index failed: %w", err)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// generateUsernameBase creates a lowercase alphanumeric base from a user's name.
func generateUsernameBase(name string) string {
	var result []byte
	for _, c := range strings.ToLower(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			result = append(result, byte(c))
		}
	}
	if len(result) == 0 {
		return "user"
	}
	if len(result) > 12 {
		result = result[:12]
	}
	return string(result)
}

// rng is a seeded random source for username generation.
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateUsername creates a username candidate from a name by appending
// random digits. Caller retries on the unique constraint.
func GenerateUsername(name string) string {
	base := generateUsernameBase(name)
	return fmt.Sprintf("%s%04d", base, rng.Intn(10000))
}
