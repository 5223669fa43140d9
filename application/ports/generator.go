package ports

import "context"

// GenerationParams carries per-call generation controls
type GenerationParams struct {
	Temperature float32
	MaxTokens   int
}

// ContentGenerator is the external, untrusted text-producing collaborator.
// Implementations return free text that is expected to contain one JSON
// value; parsing and validation happen on our side of the boundary.
// Timeout and retry policy belong to the implementation, not to callers.
type ContentGenerator interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}
