package generator

import (
	"strings"
	"testing"
)

func TestExerciseSystemPrompt(t *testing.T) {
	prompt := ExerciseSystemPrompt()

	required := []string{"4 choices", "A through D", "JSON", "EXPLANATION", "DIFFICULTY", "correct_answer_id"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("system prompt missing keyword %q", keyword)
		}
	}
}

func TestBuildExerciseUserPrompt(t *testing.T) {
	prompt := BuildExerciseUserPrompt("multiplication", "medium", 6)

	required := []string{"6", "multiplication", "medium", "correct_answer_id", "choices", "explanation"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("user prompt missing keyword %q", keyword)
		}
	}

	// Known skills get their guidance block injected
	if !strings.Contains(prompt, "SKILL RULES (multiplication)") {
		t.Error("user prompt should contain multiplication skill rules")
	}
}

func TestBuildExerciseUserPrompt_UnknownSkill(t *testing.T) {
	prompt := BuildExerciseUserPrompt("trigonometry", "hard", 4)

	if !strings.Contains(prompt, "trigonometry") {
		t.Error("user prompt should name the requested skill")
	}
	if strings.Contains(prompt, "SKILL RULES") {
		t.Error("unknown skills should not get a guidance block")
	}
}

func TestSkillGuidanceInjectedIntoPrompt(t *testing.T) {
	for skill, guidance := range skillGuidance {
		prompt := BuildExerciseUserPrompt(skill, "easy", 4)

		firstLine := strings.TrimSpace(strings.Split(strings.TrimSpace(guidance), "\n")[0])
		if !strings.Contains(prompt, firstLine) {
			t.Errorf("skill %q: guidance not found in user prompt", skill)
		}
	}
}
