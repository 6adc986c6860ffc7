package models

import "time"

// ── Catalog Entities ──────────────────────────────────────

// Discipline is a top-level subject area (e.g. arithmetic, algebra).
type Discipline struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	ModuleCount int       `json:"module_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Module groups lesson pages inside a discipline.
type Module struct {
	ID           int64     `json:"id"`
	DisciplineID int64     `json:"discipline_id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Position     int       `json:"position"`
	LessonCount  int       `json:"lesson_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// LessonPage is a single lesson inside a module.
type LessonPage struct {
	ID        int64     `json:"id"`
	ModuleID  int64     `json:"module_id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Position  int       `json:"position"`
	XPReward  int       `json:"xp_reward"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// Exercise difficulty bands.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Exercise is an interactive task attached to a lesson page.
type Exercise struct {
	ID         int64     `json:"id"`
	LessonID   int64     `json:"lesson_id"`
	Kind       string    `json:"kind"` // multiple_choice, fill_in_blank, matching, drag_drop
	Difficulty string    `json:"difficulty"`
	Prompt     string    `json:"prompt"`
	Choices    []Choice  `json:"choices,omitempty"`
	Answer     string    `json:"-"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ExerciseDraft is an AI-drafted exercise awaiting editorial review.
type ExerciseDraft struct {
	ID          int64      `json:"id"`
	Skill       string     `json:"skill"`
	Difficulty  string     `json:"difficulty"`
	Prompt      string     `json:"prompt"`
	Choices     []Choice   `json:"choices"`
	Answer      string     `json:"answer"`
	Explanation string     `json:"explanation"`
	Status      string     `json:"status"` // pending, approved, rejected
	ModelUsed   string     `json:"model_used"`
	CreatedAt   time.Time  `json:"created_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
}

// Draft review states.
const (
	DraftPending  = "pending"
	DraftApproved = "approved"
	DraftRejected = "rejected"
)

// ── Request / Response Types ──────────────────────────────

type SubmitAttemptRequest struct {
	Answer string `json:"answer"`
}

type AttemptResponse struct {
	Correct         bool                  `json:"correct"`
	CorrectAnswer   string                `json:"correct_answer,omitempty"`
	XPAwarded       int                   `json:"xp_awarded"`
	Award           *AwardResult          `json:"award,omitempty"`
	NewAchievements []UnlockedAchievement `json:"new_achievements"`
}

type CompleteLessonResponse struct {
	AlreadyCompleted bool                  `json:"already_completed"`
	XPAwarded        int                   `json:"xp_awarded"`
	Award            *AwardResult          `json:"award,omitempty"`
	NewAchievements  []UnlockedAchievement `json:"new_achievements"`
}

type GenerateDraftsRequest struct {
	Skill      string `json:"skill"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

type GenerateDraftsResponse struct {
	Drafts    []ExerciseDraft `json:"drafts"`
	ModelUsed string          `json:"model_used"`
}

type ReviewDraftRequest struct {
	Action string `json:"action"` // "approve" or "reject"
}
