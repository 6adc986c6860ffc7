package generator

import (
	"fmt"
	"strings"
)

// Skills the drafting pipeline knows how to prompt for. Editorial can pass
// anything, but these get skill-specific guidance appended.
var skillGuidance = map[string]string{
	"addition": `
SKILL RULES (addition):
- Use whole numbers appropriate to the difficulty band
- Word problems should involve concrete, countable objects (apples, marbles, stickers)
- Never require regrouping at the easy band`,

	"subtraction": `
SKILL RULES (subtraction):
- Results must never be negative
- At the easy band, minuends stay below 20
- Word problems should describe removing or giving away objects`,

	"multiplication": `
SKILL RULES (multiplication):
- Easy band uses factors up to 5, medium up to 10, hard up to 12
- Prefer equal-groups phrasing ("3 bags with 4 oranges each") over bare products
- Include at least one array or grid framing per batch`,

	"division": `
SKILL RULES (division):
- All divisions must be exact (no remainders) unless the band is hard
- Phrase as fair sharing ("split equally among") where possible`,

	"fractions": `
SKILL RULES (fractions):
- Easy band compares fractions with the same denominator only
- Use denominators 2, 3, 4, 5, 6, 8, 10, 12
- Visual framings (pizza slices, chocolate bars) are encouraged`,
}

func ExerciseSystemPrompt() string {
	return `You draft mathematics exercises for an elementary and middle school e-learning platform.

REQUIREMENTS:
- Every exercise is multiple choice with exactly 4 choices labeled A through D
- Exactly one choice is correct
- Distractors must come from plausible mistakes (off-by-one, dropped carry, swapped operands), never random numbers
- The PROMPT is a single self-contained question a child can read without extra context
- The EXPLANATION walks through the solution step by step in simple language
- DIFFICULTY bands: easy (single-step, small numbers), medium (two steps or larger numbers), hard (multi-step or mixed operations)
- Keep language friendly and concrete; avoid academic vocabulary

OUTPUT: respond with a single JSON object, no surrounding prose:
{"exercises":[{"prompt":"...","choices":[{"id":"A","text":"..."},{"id":"B","text":"..."},{"id":"C","text":"..."},{"id":"D","text":"..."}],"correct_answer_id":"A","explanation":"..."}]}`
}

func BuildExerciseUserPrompt(skill, difficulty string, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Draft %d %s exercises for the skill %q.\n", count, difficulty, skill)
	b.WriteString("Vary the numbers and framing across the batch; no two exercises may share a prompt.\n")
	b.WriteString("Spread the correct_answer_id across A, B, C, and D.\n")

	if guidance, ok := skillGuidance[skill]; ok {
		b.WriteString(guidance)
		b.WriteString("\n")
	}

	b.WriteString("\nRespond with the JSON object only. Include choices, correct_answer_id, and explanation for every exercise.")

	return b.String()
}
