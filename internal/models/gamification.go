package models

import "time"

// ── Ledger Entities ───────────────────────────────────────

// UserXP is the per-user experience ledger row. Level is never stored;
// it is derived from TotalXP on every read (see gamification.LevelForXP).
type UserXP struct {
	UserID    int64     `json:"user_id"`
	TotalXP   int64     `json:"total_xp"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StreakRecord tracks consecutive daily check-ins for one user.
// LastCheckinDate is a calendar day in the platform reference timezone.
type StreakRecord struct {
	UserID          int64      `json:"user_id"`
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	LastCheckinDate *time.Time `json:"last_checkin_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// XPEvent is an append-only audit entry for every XP award.
type XPEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	Amount    int       `json:"amount"`
	RelatedID *int64    `json:"related_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UnlockedAchievement joins a user to an achievement type, at most once.
type UnlockedAchievement struct {
	UserID          int64     `json:"user_id"`
	AchievementType string    `json:"achievement_type"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	UnlockedAt      time.Time `json:"unlocked_at"`
}

// ── Operation Results ─────────────────────────────────────

// AwardResult is returned by AwardXP with the post-award ledger view.
type AwardResult struct {
	TotalXP       int64 `json:"total_xp"`
	Level         int   `json:"level"`
	XPToNextLevel int64 `json:"xp_to_next_level"`
	LeveledUp     bool  `json:"leveled_up"`
	PreviousLevel int   `json:"previous_level"`
	NewLevel      int   `json:"new_level"`
}

// CheckinResult is returned by RecordCheckin.
type CheckinResult struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	DidIncrement  bool `json:"did_increment"`
}

// EvalContext bundles the post-event state the achievement evaluator
// consumes. The collaborator that fired the triggering event fills it in.
type EvalContext struct {
	TotalXP             int64
	Level               int
	CurrentStreak       int
	LongestStreak       int
	LessonsCompleted    int
	ExercisesAnswered   int
	ExercisesCorrect    int
	LastExercisePerfect bool
	CheckinsTotal       int
}

// ── Request / Response Types ──────────────────────────────

type CheckinResponse struct {
	Streak          CheckinResult         `json:"streak"`
	LoginBonusXP    int                   `json:"login_bonus_xp"`
	Award           *AwardResult          `json:"award,omitempty"`
	NewAchievements []UnlockedAchievement `json:"new_achievements"`
}

type XPResponse struct {
	UserID        int64 `json:"user_id"`
	TotalXP       int64 `json:"total_xp"`
	Level         int   `json:"level"`
	XPToNextLevel int64 `json:"xp_to_next_level"`
}

type StreakResponse struct {
	UserID          int64  `json:"user_id"`
	CurrentStreak   int    `json:"current_streak"`
	LongestStreak   int    `json:"longest_streak"`
	LastCheckinDate string `json:"last_checkin_date,omitempty"`
}

type AchievementsResponse struct {
	Achievements []UnlockedAchievement `json:"achievements"`
}
