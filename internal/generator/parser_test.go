package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func validSetJSON(count int) string {
	letters := []string{"A", "B", "C", "D"}
	set := DraftSet{Exercises: make([]GeneratedExercise, count)}

	for i := 0; i < count; i++ {
		correctID := letters[i%4]
		choices := make([]GeneratedChoice, 4)
		for j, id := range letters {
			choices[j] = GeneratedChoice{
				ID:   id,
				Text: fmt.Sprintf("%d", 10+j),
			}
		}
		set.Exercises[i] = GeneratedExercise{
			Prompt:          fmt.Sprintf("Maria has %d apples and buys %d more. How many apples does she have now?", i+3, i+5),
			Choices:         choices,
			CorrectAnswerID: correctID,
			Explanation:     "Add the apples Maria started with to the apples she bought.",
		}
	}

	data, _ := json.Marshal(set)
	return string(data)
}

func TestParseResponse_ValidJSON(t *testing.T) {
	input := validSetJSON(4)

	set, err := ParseResponse(input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(set.Exercises) != 4 {
		t.Errorf("expected 4 exercises, got %d", len(set.Exercises))
	}

	for i, ex := range set.Exercises {
		if len(ex.Choices) != 4 {
			t.Errorf("exercise %d: expected 4 choices, got %d", i+1, len(ex.Choices))
		}
		if ex.CorrectAnswerID == "" {
			t.Errorf("exercise %d: empty correct_answer_id", i+1)
		}
	}
}

func TestParseResponse_MarkdownFences(t *testing.T) {
	input := "```json\n" + validSetJSON(3) + "\n```"

	set, err := ParseResponse(input)
	if err != nil {
		t.Fatalf("expected no error with markdown fences, got: %v", err)
	}

	if len(set.Exercises) != 3 {
		t.Errorf("expected 3 exercises, got %d", len(set.Exercises))
	}
}

func TestParseResponse_MissingChoice(t *testing.T) {
	set := DraftSet{
		Exercises: []GeneratedExercise{
			{
				Prompt: "What is 7 + 8?",
				Choices: []GeneratedChoice{
					{ID: "A", Text: "14"},
					{ID: "B", Text: "15"},
					{ID: "C", Text: "16"},
					// Missing D
				},
				CorrectAnswerID: "B",
				Explanation:     "7 plus 8 equals 15.",
			},
		},
	}
	data, _ := json.Marshal(set)

	_, err := ParseResponse(string(data))
	if err == nil {
		t.Fatal("expected validation error for missing choice")
	}

	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got: %T", err)
	}

	found := false
	for _, e := range ve.Errors {
		if strings.Contains(e, "expected 4 choices") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error about 4 choices, got: %v", ve.Errors)
	}
}

func TestParseResponse_InvalidCorrectAnswerID(t *testing.T) {
	set := DraftSet{
		Exercises: []GeneratedExercise{
			{
				Prompt: "What is 7 + 8?",
				Choices: []GeneratedChoice{
					{ID: "A", Text: "14"},
					{ID: "B", Text: "15"},
					{ID: "C", Text: "16"},
					{ID: "D", Text: "17"},
				},
				CorrectAnswerID: "E",
				Explanation:     "7 plus 8 equals 15.",
			},
		},
	}
	data, _ := json.Marshal(set)

	_, err := ParseResponse(string(data))
	if err == nil {
		t.Fatal("expected validation error for invalid correct_answer_id")
	}

	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got: %T", err)
	}

	found := false
	for _, e := range ve.Errors {
		if strings.Contains(e, "invalid correct_answer_id") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error about invalid correct_answer_id, got: %v", ve.Errors)
	}
}

func TestParseResponse_EmptyPrompt(t *testing.T) {
	set := DraftSet{
		Exercises: []GeneratedExercise{
			{
				Prompt: "   ",
				Choices: []GeneratedChoice{
					{ID: "A", Text: "14"},
					{ID: "B", Text: "15"},
					{ID: "C", Text: "16"},
					{ID: "D", Text: "17"},
				},
				CorrectAnswerID: "B",
				Explanation:     "7 plus 8 equals 15.",
			},
		},
	}
	data, _ := json.Marshal(set)

	_, err := ParseResponse(string(data))
	if err == nil {
		t.Fatal("expected validation error for empty prompt")
	}
}

func TestParseResponse_DuplicatePrompts(t *testing.T) {
	choices := []GeneratedChoice{
		{ID: "A", Text: "14"},
		{ID: "B", Text: "15"},
		{ID: "C", Text: "16"},
		{ID: "D", Text: "17"},
	}
	set := DraftSet{
		Exercises: []GeneratedExercise{
			{Prompt: "What is 7 + 8?", Choices: choices, CorrectAnswerID: "B", Explanation: "7 plus 8 equals 15."},
			{Prompt: "What is 7 + 8?", Choices: choices, CorrectAnswerID: "B", Explanation: "7 plus 8 equals 15."},
		},
	}
	data, _ := json.Marshal(set)

	_, err := ParseResponse(string(data))
	if err == nil {
		t.Fatal("expected validation error for duplicate prompts")
	}

	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got: %T", err)
	}

	found := false
	for _, e := range ve.Errors {
		if strings.Contains(e, "duplicate prompt") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error about duplicate prompt, got: %v", ve.Errors)
	}
}

func TestParseResponse_MalformedJSON(t *testing.T) {
	_, err := ParseResponse("this is not json at all")
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}

	// Should NOT be a ValidationError — should be a parse error
	if _, ok := err.(*ValidationError); ok {
		t.Fatal("expected parse error, not ValidationError")
	}
}

func TestParseResponse_EmptySet(t *testing.T) {
	_, err := ParseResponse(`{"exercises":[]}`)
	if err == nil {
		t.Fatal("expected validation error for empty set")
	}
}

func TestMockClient_ProducesValidSet(t *testing.T) {
	client := &MockClient{}

	resp, err := client.Generate(context.Background(), ExerciseSystemPrompt(), BuildExerciseUserPrompt("addition", "easy", 4))
	if err != nil {
		t.Fatalf("mock generate failed: %v", err)
	}

	set, err := ParseResponse(resp.Content)
	if err != nil {
		t.Fatalf("mock output failed validation: %v", err)
	}

	if len(set.Exercises) != 4 {
		t.Errorf("expected 4 mock exercises, got %d", len(set.Exercises))
	}
}
