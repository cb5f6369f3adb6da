package llm

import "context"

// Provider is the interface to the external text-generation collaborator used
// for report prose. Implementations return free-form text (expected to carry
// HTML markup); callers must sanitize it before rendering.
type Provider interface {
	// GenerateReport sends a role-tagged prompt pair and returns the model's
	// text. Failures propagate; no retry is performed here.
	GenerateReport(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
