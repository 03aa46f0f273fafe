// Package genai defines the generative backend contract shared by the
// analyst, interpreter and reporter stages: prompt text plus generation
// parameters in, raw text out. Responses may be fenced in a markdown code
// block; callers strip fences with StripFences before parsing.
package genai

import "context"

// Params carries per-call generation parameters.
type Params struct {
	Temperature float64
	MaxTokens   int
}

// Client is the generative backend. Implementations must be safe for
// sequential reuse across stages within a run.
type Client interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}
