package models

import "time"

// ReportArtifact is one persona's rendering of an insight. Locator is set only
// when the document was converted and archived; callers must treat an empty
// Locator as "not archived". A non-empty Error marks a persona whose
// generation failed; the other personas' artifacts are unaffected.
type ReportArtifact struct {
	Persona     Persona   `json:"persona"`
	Body        string    `json:"body"`
	GeneratedAt time.Time `json:"generated_at"`
	Mock        bool      `json:"mock"`
	Locator     string    `json:"locator,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Failed reports whether this persona's generation ended in an error marker
// instead of a document.
func (a *ReportArtifact) Failed() bool {
	return a != nil && a.Error != ""
}
