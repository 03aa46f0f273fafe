package models

import "time"

// Confidence levels form a closed set.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Persistence status values recorded on an InsightRecord. A persistence
// failure is recorded here as "failed: <detail>" and never aborts the stage.
const (
	PersistenceSkipped  = "skipped"
	PersistencePostgres = "postgres"
)

// InsightRecord is the business-language reading of exactly one
// ExecutionResult. The lift, significance and treatment-effect metrics are
// promoted to the top level so downstream consumers do not dig into Raw.
type InsightRecord struct {
	Summary         string           `json:"summary"`
	KeyFindings     []string         `json:"key_findings"`
	Recommendation  string           `json:"recommendation"`
	ConfidenceLevel string           `json:"confidence_level"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Raw             *ExecutionResult `json:"raw_analysis,omitempty"`
	Persistence     string           `json:"persistence,omitempty"`

	IncrementalLiftPct float64 `json:"incremental_lift_pct"`
	IsSignificant      int     `json:"is_significant"`
	TreatmentEffect    float64 `json:"treatment_effect"`
}

// PromoteMetrics copies the headline metrics from the execution result onto
// the record. Safe on a nil result.
func (r *InsightRecord) PromoteMetrics(res *ExecutionResult) {
	if res == nil {
		return
	}

	r.IncrementalLiftPct = res.Metrics.IncrementalLiftPct
	r.IsSignificant = res.Metrics.IsSignificant
	r.TreatmentEffect = res.Metrics.TreatmentEffect
}
