package gamification

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mathpath/backend/internal/models"
)

// ErrInvalidAmount is returned by AwardXP for non-positive amounts.
var ErrInvalidAmount = errors.New("xp amount must be a positive integer")

// LoginBonusXP is awarded for the first check-in of a calendar day.
const LoginBonusXP = 10

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// ── XP Ledger ───────────────────────────────────────────

// AwardXP adds points to a user's ledger and derives the level from the
// new total. The ledger row is created on first award; the level is never
// read from storage, only recomputed.
func (s *Service) AwardXP(userID int64, amount int, reason string, relatedID *int64) (*models.AwardResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.store.GetOrCreateXP(userID); err != nil {
		return nil, fmt.Errorf("ensure ledger: %w", err)
	}

	newTotal, err := s.store.AddXP(userID, amount)
	if err != nil {
		return nil, err
	}

	// The atomic increment fixes this award's before/after window even
	// when awards for the same user race.
	previousLevel, newLevel, leveledUp := levelWindow(newTotal-int64(amount), newTotal)

	if err := s.store.LogXPEvent(userID, reason, amount, relatedID); err != nil {
		log.Printf("[gamification] failed to log xp event for user %d: %v", userID, err)
	}

	return &models.AwardResult{
		TotalXP:       newTotal,
		Level:         newLevel,
		XPToNextLevel: XPToNextLevel(newTotal),
		LeveledUp:     leveledUp,
		PreviousLevel: previousLevel,
		NewLevel:      newLevel,
	}, nil
}

// levelWindow derives the before and after levels of one award from the
// totals around its atomic increment.
func levelWindow(previousTotal, newTotal int64) (previousLevel, newLevel int, leveledUp bool) {
	previousLevel = LevelForXP(previousTotal)
	newLevel = LevelForXP(newTotal)
	return previousLevel, newLevel, newLevel > previousLevel
}

// ── Streak Tracker ──────────────────────────────────────

// RecordCheckin advances the user's streak for the calendar day containing
// now in the platform reference timezone. The day is derived server-side;
// clients never supply it.
func (s *Service) RecordCheckin(userID int64, now time.Time) (*models.CheckinResult, error) {
	rec, err := s.store.GetOrCreateStreak(userID)
	if err != nil {
		return nil, fmt.Errorf("ensure streak: %w", err)
	}

	day := DayOf(now)
	didIncrement, err := advanceStreak(rec, day)
	if err != nil {
		if errors.Is(err, ErrNonMonotonicCheckin) {
			log.Printf("[gamification] non-monotonic checkin for user %d: stored %s, got %s",
				userID, lastCheckinString(rec.LastCheckinDate), day.Format("2006-01-02"))
		}
		return nil, err
	}

	if didIncrement {
		if err := s.store.UpdateStreak(rec); err != nil {
			return nil, fmt.Errorf("update streak: %w", err)
		}
	}

	return &models.CheckinResult{
		CurrentStreak: rec.CurrentStreak,
		LongestStreak: rec.LongestStreak,
		DidIncrement:  didIncrement,
	}, nil
}

// DailyLogin is the daily login flow: record the check-in, award the login
// bonus on the first check-in of the day, then run the achievement
// evaluator against the updated state.
func (s *Service) DailyLogin(userID int64, now time.Time) (*models.CheckinResponse, error) {
	checkin, err := s.RecordCheckin(userID, now)
	if err != nil {
		if errors.Is(err, ErrNonMonotonicCheckin) {
			// Surfaced to the client as a no-op success.
			rec, recErr := s.store.GetOrCreateStreak(userID)
			if recErr != nil {
				return nil, recErr
			}
			return &models.CheckinResponse{
				Streak: models.CheckinResult{
					CurrentStreak: rec.CurrentStreak,
					LongestStreak: rec.LongestStreak,
					DidIncrement:  false,
				},
				NewAchievements: []models.UnlockedAchievement{},
			}, nil
		}
		return nil, err
	}

	resp := &models.CheckinResponse{
		Streak:          *checkin,
		NewAchievements: []models.UnlockedAchievement{},
	}

	if checkin.DidIncrement {
		award, err := s.AwardXP(userID, LoginBonusXP, "daily_login", nil)
		if err != nil {
			return nil, err
		}
		resp.LoginBonusXP = LoginBonusXP
		resp.Award = award
	}

	ctx, err := s.LoadContext(userID)
	if err != nil {
		return nil, err
	}
	unlocked, err := s.Evaluate(userID, *ctx)
	if err != nil {
		return nil, err
	}
	resp.NewAchievements = unlocked

	return resp, nil
}

// ── Achievement Evaluator ───────────────────────────────

// LoadContext assembles the evaluator context from current ledger, streak,
// and activity state.
func (s *Service) LoadContext(userID int64) (*models.EvalContext, error) {
	xp, err := s.store.GetOrCreateXP(userID)
	if err != nil {
		return nil, err
	}
	streak, err := s.store.GetOrCreateStreak(userID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.store.CountLessonCompletions(userID)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	answered, correct, err := s.store.CountExerciseAttempts(userID)
	if err != nil {
		return nil, fmt.Errorf("count attempts: %w", err)
	}

	checkins := 0
	if streak.LastCheckinDate != nil {
		checkins = 1
	}

	return &models.EvalContext{
		TotalXP:           xp.TotalXP,
		Level:             LevelForXP(xp.TotalXP),
		CurrentStreak:     streak.CurrentStreak,
		LongestStreak:     streak.LongestStreak,
		LessonsCompleted:  lessons,
		ExercisesAnswered: answered,
		ExercisesCorrect:  correct,
		CheckinsTotal:     checkins,
	}, nil
}

// Evaluate walks the catalog in declared order and unlocks every
// definition whose criteria the context newly satisfies. The unique
// constraint on (user_id, achievement_type) makes concurrent duplicate
// evaluations benign: only the call that wins the insert reports the
// unlock.
func (s *Service) Evaluate(userID int64, ctx models.EvalContext) ([]models.UnlockedAchievement, error) {
	already, err := s.store.UnlockedSet(userID)
	if err != nil {
		return nil, err
	}

	newUnlocks := []models.UnlockedAchievement{}
	for _, def := range Catalog {
		if already[def.Type] || !def.Criteria(ctx) {
			continue
		}
		inserted, err := s.store.InsertUnlock(userID, def.Type)
		if err != nil {
			return nil, err
		}
		if !inserted {
			// Lost a race with a concurrent evaluation. Already unlocked.
			continue
		}
		newUnlocks = append(newUnlocks, models.UnlockedAchievement{
			UserID:          userID,
			AchievementType: def.Type,
			Title:           def.Title,
			Description:     def.Description,
			UnlockedAt:      time.Now().UTC(),
		})
	}
	return newUnlocks, nil
}

// ── Read Side ───────────────────────────────────────────

func (s *Service) GetXP(userID int64) (*models.XPResponse, error) {
	xp, err := s.store.GetOrCreateXP(userID)
	if err != nil {
		return nil, err
	}
	return &models.XPResponse{
		UserID:        xp.UserID,
		TotalXP:       xp.TotalXP,
		Level:         LevelForXP(xp.TotalXP),
		XPToNextLevel: XPToNextLevel(xp.TotalXP),
	}, nil
}

// GetXPHistory returns the newest entries of the user's XP audit trail.
func (s *Service) GetXPHistory(userID int64, limit int) ([]models.XPEvent, error) {
	return s.store.ListXPEvents(userID, clampHistoryLimit(limit))
}

// clampHistoryLimit bounds a caller-supplied page size to 1..100,
// defaulting to 50 when unset or out of range.
func clampHistoryLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}

func (s *Service) GetStreak(userID int64) (*models.StreakResponse, error) {
	rec, err := s.store.GetOrCreateStreak(userID)
	if err != nil {
		return nil, err
	}
	return &models.StreakResponse{
		UserID:          rec.UserID,
		CurrentStreak:   rec.CurrentStreak,
		LongestStreak:   rec.LongestStreak,
		LastCheckinDate: lastCheckinString(rec.LastCheckinDate),
	}, nil
}

func (s *Service) GetAchievements(userID int64) (*models.AchievementsResponse, error) {
	unlocks, err := s.store.ListUnlocks(userID)
	if err != nil {
		return nil, err
	}
	for i := range unlocks {
		if def, ok := LookupAchievement(unlocks[i].AchievementType); ok {
			unlocks[i].Title = def.Title
			unlocks[i].Description = def.Description
		}
	}
	return &models.AchievementsResponse{Achievements: unlocks}, nil
}

// ── Admin ───────────────────────────────────────────────

// AdminReset irreversibly wipes a user's gamification state. Idempotent;
// authorization is enforced by the caller's middleware.
func (s *Service) AdminReset(userID int64) error {
	if err := s.store.ResetUser(userID); err != nil {
		return err
	}
	log.Printf("[gamification] admin reset for user %d", userID)
	return nil
}
