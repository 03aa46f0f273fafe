package models

import "time"

// Normalized execution statuses. The warehouse procedure contract requires a
// top-level "status" field carrying one of these values.
const (
	ExecutionStatusSuccess = "success"
	ExecutionStatusError   = "error"
)

// Metrics holds the numeric findings extracted from a successful analysis.
// Booleans arrive from the warehouse as 0/1 because its value representation
// has no native boolean; IsSignificant keeps that encoding.
type Metrics struct {
	TreatmentEffect       float64          `json:"treatment_effect"`
	PValue                float64          `json:"p_value"`
	ConfidenceInterval    []float64        `json:"confidence_interval,omitempty"`
	TreatedConversionRate float64          `json:"treated_conversion_rate"`
	ControlConversionRate float64          `json:"control_conversion_rate"`
	IncrementalLiftPct    float64          `json:"incremental_lift_pct"`
	SampleSizes           map[string]int64 `json:"sample_sizes,omitempty"`
	IsSignificant         int              `json:"is_significant"`
}

// ExecutionResult is the canonical record of one warehouse invocation,
// produced once per run and never mutated afterwards. Analysis preserves the
// full normalized mapping (including any structured error payload) so
// downstream consumers are not limited to RawOutput.
type ExecutionResult struct {
	Success       bool           `json:"success"`
	Status        string         `json:"status"`
	Metrics       Metrics        `json:"metrics"`
	Error         string         `json:"error,omitempty"`
	Diagnostics   map[string]any `json:"diagnostics,omitempty"`
	Analysis      map[string]any `json:"analysis_results"`
	RawOutput     string         `json:"raw_output,omitempty"`
	ExecutedAt    time.Time      `json:"executed_at"`
	ProcedureName string         `json:"procedure_name,omitempty"`
}
