package models

import "time"

// RunMetadata threads the original request and the earlier stages' artifacts
// into the distributor so it can re-fetch the code artifact for archival and
// attachment purposes.
type RunMetadata struct {
	RunID     string           `json:"run_id"`
	Request   AnalysisRequest  `json:"request"`
	Artifact  *CodeArtifact    `json:"artifact,omitempty"`
	Execution *ExecutionResult `json:"execution,omitempty"`
}

// RunRecord aggregates everything one pipeline pass produced. It is the unit
// of archival.
type RunRecord struct {
	ID           string                         `json:"id"`
	Request      AnalysisRequest                `json:"request"`
	Artifact     *CodeArtifact                  `json:"artifact,omitempty"`
	Execution    *ExecutionResult               `json:"execution,omitempty"`
	Insight      *InsightRecord                 `json:"insight,omitempty"`
	Reports      map[Persona]*ReportArtifact    `json:"reports,omitempty"`
	Distribution map[string]DistributionOutcome `json:"distribution,omitempty"`
	StartedAt    time.Time                      `json:"started_at"`
	FinishedAt   time.Time                      `json:"finished_at"`
}
