package interpreter

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlab/liftwire/pkg/genai"
	"github.com/liftlab/liftwire/pkg/models"
)

func successResult() *models.ExecutionResult {
	return &models.ExecutionResult{
		Success: true,
		Status:  models.ExecutionStatusSuccess,
		Metrics: models.Metrics{
			TreatmentEffect:       0.045,
			PValue:                0.012,
			TreatedConversionRate: 0.18,
			ControlConversionRate: 0.135,
			IncrementalLiftPct:    33.3,
			IsSignificant:         1,
		},
	}
}

type stubGenerator struct {
	record *models.InsightRecord
	err    error
}

func (g *stubGenerator) Insights(_ context.Context, _ *models.ExecutionResult) (*models.InsightRecord, error) {
	return g.record, g.err
}

type recordingStore struct {
	saved *models.InsightRecord
	err   error
}

func (s *recordingStore) Save(_ context.Context, record *models.InsightRecord) error {
	s.saved = record

	return s.err
}

func (s *recordingStore) Close() error { return nil }

func TestStage_Interpret_PersistsAndPromotes(t *testing.T) {
	store := &recordingStore{}
	stage := NewStage(Templated{}, store, slog.Default())

	record := stage.Interpret(context.Background(), successResult())

	assert.Equal(t, models.PersistencePostgres, record.Persistence)
	assert.InDelta(t, 33.3, record.IncrementalLiftPct, 1e-9)
	assert.Equal(t, 1, record.IsSignificant)
	assert.InDelta(t, 0.045, record.TreatmentEffect, 1e-9)
	assert.Same(t, record, store.saved)
	require.NotNil(t, record.Raw)
	assert.True(t, record.Raw.Success)
}

func TestStage_Interpret_NoStoreSkips(t *testing.T) {
	stage := NewStage(Templated{}, nil, slog.Default())

	record := stage.Interpret(context.Background(), successResult())

	assert.Equal(t, models.PersistenceSkipped, record.Persistence)
}

func TestStage_Interpret_PersistenceFailureRecorded(t *testing.T) {
	store := &recordingStore{err: errors.New("connection refused")}
	stage := NewStage(Templated{}, store, slog.Default())

	record := stage.Interpret(context.Background(), successResult())

	assert.Contains(t, record.Persistence, "failed: connection refused")
	assert.NotEmpty(t, record.Summary)
}

func TestStage_Interpret_GenerationFailureDegrades(t *testing.T) {
	gen := &stubGenerator{err: errors.New("backend unavailable")}
	stage := NewStage(gen, nil, slog.Default())

	record := stage.Interpret(context.Background(), successResult())

	assert.Contains(t, record.Summary, "backend unavailable")
	assert.Equal(t, models.ConfidenceLow, record.ConfidenceLevel)
	assert.Equal(t, "Review manually.", record.Recommendation)
	assert.InDelta(t, 33.3, record.IncrementalLiftPct, 1e-9)
}

func TestTemplated_Insights(t *testing.T) {
	record, err := Templated{}.Insights(context.Background(), successResult())
	require.NoError(t, err)

	assert.Contains(t, record.Summary, "positive incremental lift of 33.3%")
	assert.Equal(t, models.ConfidenceHigh, record.ConfidenceLevel)
	assert.Len(t, record.KeyFindings, 3)
	assert.Contains(t, record.Recommendation, "Scale the campaign")
}

func TestTemplated_Insights_NotSignificant(t *testing.T) {
	result := successResult()
	result.Metrics.IsSignificant = 0

	record, err := Templated{}.Insights(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, models.ConfidenceMedium, record.ConfidenceLevel)
	assert.Contains(t, record.Recommendation, "Extend the test")
}

func TestTemplated_Insights_FailedExecution(t *testing.T) {
	result := &models.ExecutionResult{
		Success: false,
		Status:  models.ExecutionStatusError,
		Error:   "column not found",
	}

	record, err := Templated{}.Insights(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, models.ConfidenceLow, record.ConfidenceLevel)
	assert.Contains(t, record.Summary, "did not complete successfully")
}

type scriptedClient struct {
	response string
	err      error
	prompt   string
}

func (c *scriptedClient) Generate(_ context.Context, prompt string, _ genai.Params) (string, error) {
	c.prompt = prompt

	return c.response, c.err
}

func TestBackendBacked_Insights(t *testing.T) {
	client := &scriptedClient{response: "```json\n" + `{
		"summary": "Email drove a 33% lift in conversions.",
		"key_findings": ["Lift is positive", "Result is significant"],
		"recommendation": "Expand to remaining segments.",
		"confidence_level": "High"
	}` + "\n```"}

	gen := &BackendBacked{Client: client}

	record, err := gen.Insights(context.Background(), successResult())
	require.NoError(t, err)

	assert.Equal(t, "Email drove a 33% lift in conversions.", record.Summary)
	assert.Equal(t, models.ConfidenceHigh, record.ConfidenceLevel)
	assert.Len(t, record.KeyFindings, 2)
	assert.Contains(t, client.prompt, "incrementality test")
	assert.Contains(t, client.prompt, "treatment_effect")
}

func TestBackendBacked_Insights_BadJSON(t *testing.T) {
	gen := &BackendBacked{Client: &scriptedClient{response: "not json at all"}}

	_, err := gen.Insights(context.Background(), successResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid insight JSON")
}

func TestBackendBacked_Insights_UnknownConfidenceNormalized(t *testing.T) {
	gen := &BackendBacked{Client: &scriptedClient{
		response: `{"summary": "s", "key_findings": [], "recommendation": "r", "confidence_level": "Very High"}`,
	}}

	record, err := gen.Insights(context.Background(), successResult())
	require.NoError(t, err)
	assert.Equal(t, models.ConfidenceLow, record.ConfidenceLevel)
}

func TestNewPostgresStore_RejectsUnsafeTable(t *testing.T) {
	_, err := NewPostgresStore("postgres://localhost/insights", "insights; DROP TABLE runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid insights table name")
}

func TestNewPostgresStore_DefaultTable(t *testing.T) {
	store, err := NewPostgresStore("postgres://localhost/insights", "")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, DefaultInsightsTable, store.table)
}
