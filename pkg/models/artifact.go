package models

import "time"

// CodeArtifact is the analyst stage's output: generated warehouse procedure
// source plus validation state. Immutable once produced; later stages refer to
// it by Locator.
type CodeArtifact struct {
	Source               string    `json:"source"`
	Valid                bool      `json:"valid"`
	SyntaxError          string    `json:"syntax_error,omitempty"`
	GeneratedAt          time.Time `json:"generated_at"`
	Locator              string    `json:"locator,omitempty"`
	Model                string    `json:"model"`
	SemanticModelVersion string    `json:"semantic_model_version"`
}
