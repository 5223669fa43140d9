package services

import (
	"fmt"
	"strings"

	"inquiry-backend/domain/core/entities"
)

const summaryContentLimit = 200

// formatPath renders the root-to-node path as numbered context lines so the
// generator sees what has already been argued on this branch
func formatPath(path []*entities.Node) string {
	var b strings.Builder
	for _, node := range path {
		fmt.Fprintf(&b, "%s[%s] %s\n", strings.Repeat("  ", node.Depth()), node.Type(), truncate(node.Content(), summaryContentLimit))
	}
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func centralPointPrompt(question string) string {
	return fmt.Sprintf(`You are opening a dialectical inquiry into the question below.

Question: %s

State the strongest initial position on this question as a single point.
Respond with exactly one JSON object:
{"content": "<the position, 1-3 sentences>", "strength": <0.0-1.0>, "tags": ["<short label>", ...]}`, question)
}

func objectionsPrompt(question string, path []*entities.Node, target *entities.Node) string {
	return fmt.Sprintf(`You are challenging a point inside a dialectical inquiry.

Central question: %s

Argument so far (root first):
%s
Raise the strongest objections to this point:
%q

Respond with exactly one JSON object:
{"objections": [{"content": "<the objection, 1-3 sentences>", "strength": <0.0-1.0>, "tags": [], "reasoning": "<why this objection bites>"}, ...]}
Return between one and three objections.`, question, formatPath(path), target.Content())
}

func refutationPrompt(question string, path []*entities.Node, objection, parentPoint *entities.Node) string {
	return fmt.Sprintf(`You are defending a point inside a dialectical inquiry.

Central question: %s

Argument so far (root first):
%s
The point under attack:
%q

The objection to refute:
%q

Respond with exactly one JSON object:
{"content": "<the refutation, 1-3 sentences>", "strength": <0.0-1.0>, "tags": [], "reasoning": "<why the objection fails>"}`, question, formatPath(path), parentPoint.Content(), objection.Content())
}

func synthesisPrompt(question string, a, b *entities.Node) string {
	return fmt.Sprintf(`You are reconciling two positions inside a dialectical inquiry.

Central question: %s

Position A [%s]:
%q

Position B [%s]:
%q

Produce a synthesis that preserves what is right in both and moves the
inquiry forward. Respond with exactly one JSON object:
{"content": "<the synthesis, 1-3 sentences>", "strength": <0.0-1.0>, "tags": [], "newInsight": "<what the synthesis reveals>"}`, question, a.Type(), a.Content(), b.Type(), b.Content())
}

func analysisPrompt(question, summary string) string {
	return fmt.Sprintf(`You are assessing a whole dialectical inquiry.

Central question: %s

The argument graph (indentation shows depth):
%s
Respond with exactly one JSON object:
{"overallStrength": <0.0-1.0>, "coherenceScore": <0.0-1.0>, "keyInsights": ["<insight>", ...], "suggestions": ["<where to push the inquiry next>", ...]}`, question, summary)
}
