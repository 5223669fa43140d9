package services

import (
	"encoding/json"
	"strings"

	"inquiry-backend/domain/core/entities"
	pkgerrors "inquiry-backend/pkg/errors"
)

// generatedNode is the structured item shape the generator returns for a new
// node. Everything beyond content/strength/tags is carried into the node's
// free-form metadata.
type generatedNode struct {
	Content    string   `json:"content"`
	Strength   float64  `json:"strength"`
	Tags       []string `json:"tags"`
	Reasoning  string   `json:"reasoning"`
	Strategy   string   `json:"strategy"`
	NewInsight string   `json:"newInsight"`
}

// metadata converts the generator item into node metadata
func (g generatedNode) metadata() entities.Metadata {
	extra := make(map[string]interface{})
	if g.Reasoning != "" {
		extra["reasoning"] = g.Reasoning
	}
	if g.Strategy != "" {
		extra["strategy"] = g.Strategy
	}
	if g.NewInsight != "" {
		extra["newInsight"] = g.NewInsight
	}

	tags := g.Tags
	if tags == nil {
		tags = []string{}
	}

	return entities.Metadata{
		Strength: clamp01(g.Strength),
		Tags:     tags,
		Extra:    extra,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// decodeGeneratorResponse parses the generator's free-text reply into v.
// The reply is expected to contain one JSON object, optionally wrapped in a
// fenced code block; anything else fails with a generation parse error that
// carries the raw text for diagnostics.
func decodeGeneratorResponse(raw string, v interface{}) error {
	text := stripCodeFence(strings.TrimSpace(raw))

	candidate := text
	if !json.Valid([]byte(candidate)) {
		obj, ok := firstJSONObject(text)
		if !ok {
			return pkgerrors.NewGenerationParseError("no JSON object found in generator output", raw)
		}
		candidate = obj
	}

	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return pkgerrors.NewGenerationParseError("generator output is not valid JSON: "+err.Error(), raw)
	}
	return nil
}

// stripCodeFence removes a leading/trailing triple-backtick fence, with or
// without a language tag
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := text[3:]
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	} else {
		// Fence with no newline: "```{...}```"
		body = strings.TrimPrefix(body, "json")
	}

	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// firstJSONObject returns the first balanced {...} substring, tracking string
// literals and escapes so braces inside content don't confuse the scan
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
