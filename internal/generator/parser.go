package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

type DraftSet struct {
	Exercises []GeneratedExercise `json:"exercises"`
}

type GeneratedExercise struct {
	Prompt          string            `json:"prompt"`
	Choices         []GeneratedChoice `json:"choices"`
	CorrectAnswerID string            `json:"correct_answer_id"`
	Explanation     string            `json:"explanation"`
}

type GeneratedChoice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

func ParseResponse(responseBody string) (*DraftSet, error) {
	cleaned := stripCodeFences(responseBody)

	var set DraftSet
	if err := json.Unmarshal([]byte(cleaned), &set); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateSet(&set); err != nil {
		return nil, err
	}

	return &set, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

var validChoiceIDs = map[string]bool{"A": true, "B": true, "C": true, "D": true}

func validateSet(set *DraftSet) error {
	var errs []string

	if len(set.Exercises) == 0 {
		return &ValidationError{Errors: []string{"no exercises in response"}}
	}

	correctAnswerCounts := make(map[string]int)
	seenPrompts := make(map[string]int)

	for i, ex := range set.Exercises {
		exNum := i + 1

		if len(ex.Choices) != 4 {
			errs = append(errs, fmt.Sprintf("exercise %d: expected 4 choices, got %d", exNum, len(ex.Choices)))
			continue
		}

		expectedIDs := []string{"A", "B", "C", "D"}
		for j, c := range ex.Choices {
			if c.ID != expectedIDs[j] {
				errs = append(errs, fmt.Sprintf("exercise %d: choice %d has id %q, expected %q", exNum, j+1, c.ID, expectedIDs[j]))
			}
			if strings.TrimSpace(c.Text) == "" {
				errs = append(errs, fmt.Sprintf("exercise %d: choice %s has empty text", exNum, c.ID))
			}
		}

		if !validChoiceIDs[ex.CorrectAnswerID] {
			errs = append(errs, fmt.Sprintf("exercise %d: invalid correct_answer_id %q", exNum, ex.CorrectAnswerID))
		}

		if strings.TrimSpace(ex.Prompt) == "" {
			errs = append(errs, fmt.Sprintf("exercise %d: empty prompt", exNum))
		}

		if strings.TrimSpace(ex.Explanation) == "" {
			errs = append(errs, fmt.Sprintf("exercise %d: empty explanation", exNum))
		}

		if prev, dup := seenPrompts[ex.Prompt]; dup {
			errs = append(errs, fmt.Sprintf("exercise %d: duplicate prompt of exercise %d", exNum, prev))
		} else {
			seenPrompts[ex.Prompt] = exNum
		}

		correctAnswerCounts[ex.CorrectAnswerID]++
	}

	// Warn (but don't reject) if correct answers are clustered on one letter
	for letter, count := range correctAnswerCounts {
		if count > 2 && len(set.Exercises) >= 4 {
			log.Printf("WARNING: correct answer %q appears %d times in set of %d exercises", letter, count, len(set.Exercises))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}
