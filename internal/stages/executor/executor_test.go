package executor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/artifact/file"
	"github.com/liftlab/liftwire/pkg/models"
	"github.com/liftlab/liftwire/pkg/warehouse"
)

const successPayload = `{
  "status": "success",
  "treatment_effect": 0.042,
  "p_value": 0.003,
  "confidence_interval": [0.021, 0.063],
  "treated_conversion_rate": 0.19,
  "control_conversion_rate": 0.148,
  "incremental_lift_pct": 28.4,
  "sample_sizes": {"treated": 5120, "control": 5080},
  "is_significant": 1,
  "diagnostics": {"matched_pairs": 5080}
}`

type fakeSession struct {
	deployErr    error
	callResult   any
	callErr      error
	deployedName string
	deployedSrc  string
	closed       bool
}

func (s *fakeSession) Deploy(_ context.Context, procName, source string) error {
	s.deployedName = procName
	s.deployedSrc = source

	return s.deployErr
}

func (s *fakeSession) Call(_ context.Context, _ string) (any, error) {
	return s.callResult, s.callErr
}

func (s *fakeSession) Close() error {
	s.closed = true

	return nil
}

type fakeOpener struct {
	session *fakeSession
	openErr error
}

func (o *fakeOpener) Open(_ context.Context) (warehouse.Session, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}

	return o.session, nil
}

func TestStage_Execute_Success(t *testing.T) {
	session := &fakeSession{callResult: successPayload}
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	stage := NewStage(&fakeOpener{session: session}, store, slog.Default())

	result := stage.Execute(context.Background(), "def main(context): pass")

	assert.True(t, result.Success)
	assert.Equal(t, models.ExecutionStatusSuccess, result.Status)
	assert.InDelta(t, 0.042, result.Metrics.TreatmentEffect, 1e-9)
	assert.InDelta(t, 28.4, result.Metrics.IncrementalLiftPct, 1e-9)
	assert.Equal(t, 1, result.Metrics.IsSignificant)
	assert.Equal(t, []float64{0.021, 0.063}, result.Metrics.ConfidenceInterval)
	assert.Equal(t, int64(5120), result.Metrics.SampleSizes["treated"])
	assert.Contains(t, result.ProcedureName, "run_incrementality_analysis_")
	assert.Equal(t, result.ProcedureName, session.deployedName)
	assert.True(t, session.closed)

	published, err := store.Get(context.Background(), artifact.LatestResultPath)
	require.NoError(t, err)

	var stored models.ExecutionResult
	require.NoError(t, json.Unmarshal(published, &stored))
	assert.True(t, stored.Success)
}

func TestStage_Execute_WarehouseUnavailable(t *testing.T) {
	stage := NewStage(&fakeOpener{openErr: errors.New("warehouse DSN is not configured")}, nil, slog.Default())

	result := stage.Execute(context.Background(), "def main(context): pass")

	assert.False(t, result.Success)
	assert.Equal(t, models.ExecutionStatusError, result.Status)
	assert.Contains(t, result.Error, "failed to open warehouse session")
}

func TestStage_Execute_DeployFailureClosesSession(t *testing.T) {
	session := &fakeSession{deployErr: errors.New("permission denied")}
	stage := NewStage(&fakeOpener{session: session}, nil, slog.Default())

	result := stage.Execute(context.Background(), "def main(context): pass")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "failed to deploy")
	assert.True(t, session.closed)
}

func TestStage_Execute_CallFailure(t *testing.T) {
	session := &fakeSession{callErr: errors.New("division by zero")}
	stage := NewStage(&fakeOpener{session: session}, nil, slog.Default())

	result := stage.Execute(context.Background(), "def main(context): pass")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "division by zero")
	assert.True(t, session.closed)
}

func TestStage_ExecuteFromLocator(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	source := []byte("def main(context):\n    return {}")
	require.NoError(t, store.Put(context.Background(), artifact.LatestCodePath, source, "text/x-python"))

	session := &fakeSession{callResult: successPayload}
	stage := NewStage(&fakeOpener{session: session}, store, slog.Default())

	result := stage.ExecuteFromLocator(context.Background(), artifact.LatestCodePath)

	assert.True(t, result.Success)
	assert.Equal(t, string(source), session.deployedSrc)
}

func TestStage_ExecuteFromLocator_Missing(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	stage := NewStage(&fakeOpener{session: &fakeSession{}}, store, slog.Default())

	result := stage.ExecuteFromLocator(context.Background(), "generated_code/nope.py")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "failed to load code")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		raw         any
		wantSuccess bool
		wantStatus  string
		wantErr     string
	}{
		{
			name:        "success json string",
			raw:         successPayload,
			wantSuccess: true,
			wantStatus:  models.ExecutionStatusSuccess,
		},
		{
			name:        "procedure reported error",
			raw:         `{"status": "error", "error": "column not found: converted"}`,
			wantSuccess: false,
			wantStatus:  models.ExecutionStatusError,
			wantErr:     "column not found",
		},
		{
			name:        "not json",
			raw:         "Traceback (most recent call last):",
			wantSuccess: false,
			wantStatus:  models.ExecutionStatusError,
			wantErr:     "not valid JSON",
		},
		{
			name: "decoded mapping",
			raw: map[string]any{
				"status": "error", "error": "timeout",
			},
			wantSuccess: false,
			wantStatus:  models.ExecutionStatusError,
			wantErr:     "timeout",
		},
		{
			name:        "unexpected type",
			raw:         42,
			wantSuccess: false,
			wantStatus:  models.ExecutionStatusError,
			wantErr:     "unexpected result type int",
		},
		{
			name:        "success missing required metrics",
			raw:         `{"status": "success"}`,
			wantSuccess: false,
			wantStatus:  models.ExecutionStatusError,
			wantErr:     "violates contract",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalize(tt.raw)

			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantStatus, result.Status)

			if tt.wantErr != "" {
				assert.Contains(t, result.Error, tt.wantErr)
			}
		})
	}
}

func TestNormalize_TruncatesRawOutput(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}

	result := normalize(string(long))

	assert.False(t, result.Success)
	assert.Len(t, result.RawOutput, rawPreviewLimit)
}

func TestNormalize_PreservesAnalysisMapping(t *testing.T) {
	result := normalize(`{"status": "error", "error": "boom", "diagnostics_hint": "check nulls"}`)

	assert.Equal(t, "boom", result.Analysis["error"])
	assert.Equal(t, "check nulls", result.Analysis["diagnostics_hint"])
}
