package content

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mathpath/backend/internal/gamification"
	"github.com/mathpath/backend/internal/generator"
	"github.com/mathpath/backend/internal/models"
)

var (
	ErrUnknownDifficulty = errors.New("difficulty must be easy, medium or hard")
	ErrInvalidDraftCount = errors.New("draft count must be between 1 and 10")
	ErrInvalidAction     = errors.New("action must be approve or reject")
)

// XP awarded for a first correct answer, by difficulty band.
var exerciseXP = map[string]int{
	models.DifficultyEasy:   10,
	models.DifficultyMedium: 15,
	models.DifficultyHard:   25,
}

const defaultDraftCount = 4

type Service struct {
	store  *Store
	gamify *gamification.Service
	gen    *generator.Generator
}

func NewService(store *Store, gamify *gamification.Service, gen *generator.Generator) *Service {
	return &Service{store: store, gamify: gamify, gen: gen}
}

// ── Catalog Reads ───────────────────────────────────────

func (s *Service) ListDisciplines() ([]models.Discipline, error) {
	return s.store.ListDisciplines()
}

func (s *Service) ListModules(disciplineSlug string) ([]models.Module, error) {
	d, err := s.store.GetDisciplineBySlug(disciplineSlug)
	if err != nil {
		return nil, err
	}
	return s.store.ListModules(d.ID)
}

func (s *Service) ListLessons(moduleID, userID int64) ([]models.LessonPage, error) {
	return s.store.ListLessons(moduleID, userID)
}

func (s *Service) GetLessonWithExercises(lessonID int64) (*models.LessonPage, []models.Exercise, error) {
	lesson, err := s.store.GetLesson(lessonID)
	if err != nil {
		return nil, nil, err
	}
	exercises, err := s.store.ListExercises(lessonID)
	if err != nil {
		return nil, nil, err
	}
	return lesson, exercises, nil
}

// ── Lesson Completion ───────────────────────────────────

// CompleteLesson marks a lesson finished and awards its XP. Completing the
// same lesson twice is a no-op with no second award.
func (s *Service) CompleteLesson(userID, lessonID int64) (*models.CompleteLessonResponse, error) {
	lesson, err := s.store.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	inserted, err := s.store.RecordCompletion(userID, lessonID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return &models.CompleteLessonResponse{
			AlreadyCompleted: true,
			NewAchievements:  []models.UnlockedAchievement{},
		}, nil
	}

	award, err := s.gamify.AwardXP(userID, lesson.XPReward, "lesson_completed", &lessonID)
	if err != nil {
		return nil, fmt.Errorf("award lesson xp: %w", err)
	}

	unlocked, err := s.evaluateAchievements(userID, false)
	if err != nil {
		// The completion and XP are already committed; achievement evaluation
		// will catch up on the next activity.
		log.Printf("[content] achievement evaluation failed for user %d: %v", userID, err)
		unlocked = []models.UnlockedAchievement{}
	}

	return &models.CompleteLessonResponse{
		XPAwarded:       lesson.XPReward,
		Award:           award,
		NewAchievements: unlocked,
	}, nil
}

// ── Exercise Attempts ───────────────────────────────────

// SubmitAttempt grades one submitted answer. XP is awarded only for the
// first correct attempt on an exercise; the first-correct marker row is
// the serialization point, so rapid double-submits of the same correct
// answer cannot double-count.
func (s *Service) SubmitAttempt(userID, exerciseID int64, answer string) (*models.AttemptResponse, error) {
	ex, err := s.store.GetExercise(exerciseID)
	if err != nil {
		return nil, err
	}

	correct := normalizeAnswer(answer) == normalizeAnswer(ex.Answer)

	priorAttempts, err := s.store.CountPriorAttempts(userID, exerciseID)
	if err != nil {
		return nil, err
	}

	if err := s.store.RecordAttempt(userID, exerciseID, answer, correct); err != nil {
		return nil, err
	}

	resp := &models.AttemptResponse{
		Correct:         correct,
		NewAchievements: []models.UnlockedAchievement{},
	}
	if !correct {
		resp.CorrectAnswer = ex.Answer
	}

	wonFirstCorrect := false
	if correct {
		wonFirstCorrect, err = s.store.MarkFirstCorrect(userID, exerciseID)
		if err != nil {
			return nil, err
		}
	}

	if xp := xpForAttempt(ex.Difficulty, wonFirstCorrect); xp > 0 {
		award, err := s.gamify.AwardXP(userID, xp, "exercise_correct", &exerciseID)
		if err != nil {
			return nil, fmt.Errorf("award exercise xp: %w", err)
		}
		resp.XPAwarded = xp
		resp.Award = award
	}

	perfect := correct && priorAttempts == 0
	unlocked, err := s.evaluateAchievements(userID, perfect)
	if err != nil {
		log.Printf("[content] achievement evaluation failed for user %d: %v", userID, err)
		unlocked = []models.UnlockedAchievement{}
	}
	resp.NewAchievements = unlocked

	return resp, nil
}

func (s *Service) evaluateAchievements(userID int64, lastExercisePerfect bool) ([]models.UnlockedAchievement, error) {
	evalCtx, err := s.gamify.LoadContext(userID)
	if err != nil {
		return nil, err
	}
	evalCtx.LastExercisePerfect = lastExercisePerfect
	return s.gamify.Evaluate(userID, *evalCtx)
}

// Answers are compared case-insensitively with surrounding whitespace
// ignored, so "1/2" and " 1/2 " grade the same.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// xpForAttempt returns the payout for one graded attempt. Only the attempt
// that claimed the first-correct marker pays; every other outcome is 0.
func xpForAttempt(difficulty string, wonFirstCorrect bool) int {
	if !wonFirstCorrect {
		return 0
	}
	xp := exerciseXP[difficulty]
	if xp == 0 {
		xp = exerciseXP[models.DifficultyEasy]
	}
	return xp
}

// ── Draft Pipeline ──────────────────────────────────────

func (s *Service) GenerateDrafts(ctx context.Context, req models.GenerateDraftsRequest) (*models.GenerateDraftsResponse, error) {
	if strings.TrimSpace(req.Skill) == "" {
		return nil, errors.New("skill is required")
	}
	if !validDifficulty(req.Difficulty) {
		return nil, ErrUnknownDifficulty
	}
	count := req.Count
	if count == 0 {
		count = defaultDraftCount
	}
	if count < 1 || count > 10 {
		return nil, ErrInvalidDraftCount
	}

	set, llmResp, err := s.gen.DraftExercises(ctx, req.Skill, req.Difficulty, count)
	if err != nil {
		return nil, err
	}
	if llmResp != nil {
		log.Printf("[content] drafted %d exercises for %s/%s (%d prompt + %d output tokens)",
			len(set.Exercises), req.Skill, req.Difficulty, llmResp.PromptTokens, llmResp.OutputTokens)
	}

	drafts := make([]models.ExerciseDraft, 0, len(set.Exercises))
	for _, ex := range set.Exercises {
		choices := make([]models.Choice, len(ex.Choices))
		for i, c := range ex.Choices {
			choices[i] = models.Choice{ID: c.ID, Text: c.Text}
		}

		draft := models.ExerciseDraft{
			Skill:       req.Skill,
			Difficulty:  req.Difficulty,
			Prompt:      ex.Prompt,
			Choices:     choices,
			Answer:      ex.CorrectAnswerID,
			Explanation: ex.Explanation,
			Status:      models.DraftPending,
			ModelUsed:   s.gen.ModelName(),
		}
		if err := s.store.InsertDraft(&draft); err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	return &models.GenerateDraftsResponse{
		Drafts:    drafts,
		ModelUsed: s.gen.ModelName(),
	}, nil
}

func (s *Service) ListDrafts(status string, limit, offset int) ([]models.ExerciseDraft, error) {
	if status == "" {
		status = models.DraftPending
	}
	return s.store.ListDrafts(status, limit, offset)
}

// ReviewDraft resolves a pending draft. Returns false when the draft was
// not pending (missing or already reviewed).
func (s *Service) ReviewDraft(draftID int64, action string) (bool, error) {
	var status string
	switch action {
	case "approve":
		status = models.DraftApproved
	case "reject":
		status = models.DraftRejected
	default:
		return false, ErrInvalidAction
	}
	return s.store.ReviewDraft(draftID, status)
}

func validDifficulty(d string) bool {
	switch d {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return true
	}
	return false
}
