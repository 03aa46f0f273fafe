package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/liftlab/liftwire/pkg/genai"
	"github.com/liftlab/liftwire/pkg/models"
)

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

// InsightGenerator produces the business-language fields of an insight
// record. Raw linkage and metric promotion happen in the stage.
type InsightGenerator interface {
	Insights(ctx context.Context, result *models.ExecutionResult) (*models.InsightRecord, error)
}

// Templated produces deterministic insights without a generation backend.
// It is the fallback whenever backend credentials are absent.
type Templated struct{}

func (Templated) Insights(_ context.Context, result *models.ExecutionResult) (*models.InsightRecord, error) {
	record := &models.InsightRecord{
		GeneratedAt: now(),
	}

	if result == nil || !result.Success {
		record.Summary = "The analysis did not complete successfully; no reliable lift estimate is available."
		record.KeyFindings = []string{"Execution failed before metrics could be computed"}
		record.Recommendation = "Review the execution error and re-run the analysis."
		record.ConfidenceLevel = models.ConfidenceLow

		return record, nil
	}

	metrics := result.Metrics
	direction := "positive"

	if metrics.IncrementalLiftPct < 0 {
		direction = "negative"
	}

	record.Summary = fmt.Sprintf(
		"The treatment shows a %s incremental lift of %.1f%% (treatment effect %.4f, p=%.4f).",
		direction, metrics.IncrementalLiftPct, metrics.TreatmentEffect, metrics.PValue)
	record.KeyFindings = []string{
		fmt.Sprintf("Incremental lift is %.1f%%", metrics.IncrementalLiftPct),
		significanceFinding(metrics.IsSignificant),
		fmt.Sprintf("Treated conversion rate %.2f%% vs control %.2f%%",
			metrics.TreatedConversionRate*100, metrics.ControlConversionRate*100),
	}

	if metrics.IsSignificant == 1 {
		record.Recommendation = "Scale the campaign while monitoring cost per acquisition."
		record.ConfidenceLevel = models.ConfidenceHigh
	} else {
		record.Recommendation = "Extend the test to gather more data before committing budget."
		record.ConfidenceLevel = models.ConfidenceMedium
	}

	return record, nil
}

func significanceFinding(isSignificant int) string {
	if isSignificant == 1 {
		return "The result is statistically significant"
	}

	return "The result is not statistically significant"
}

// BackendBacked asks a generation backend to interpret the results.
type BackendBacked struct {
	Client genai.Client
}

var insightParams = genai.Params{
	Temperature: 0.3,
	MaxTokens:   2048,
}

func (g *BackendBacked) Insights(ctx context.Context, result *models.ExecutionResult) (*models.InsightRecord, error) {
	prompt, err := buildInsightPrompt(result)
	if err != nil {
		return nil, err
	}

	raw, err := g.Client.Generate(ctx, prompt, insightParams)
	if err != nil {
		return nil, fmt.Errorf("insight generation failed: %w", err)
	}

	content := genai.StripFences(raw)

	var fields struct {
		Summary         string   `json:"summary"`
		KeyFindings     []string `json:"key_findings"`
		Recommendation  string   `json:"recommendation"`
		ConfidenceLevel string   `json:"confidence_level"`
	}

	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, fmt.Errorf("backend returned invalid insight JSON: %w", err)
	}

	return &models.InsightRecord{
		Summary:         fields.Summary,
		KeyFindings:     fields.KeyFindings,
		Recommendation:  fields.Recommendation,
		ConfidenceLevel: normalizeConfidence(fields.ConfidenceLevel),
		GeneratedAt:     now(),
	}, nil
}

func buildInsightPrompt(result *models.ExecutionResult) (string, error) {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode execution result: %w", err)
	}

	return "You are an expert Marketing Analyst. Analyze the following statistical results from an incrementality test.\n\n" +
		"RESULTS:\n" + string(encoded) + "\n\n" +
		"TASK:\n" +
		"1. Provide a concise executive summary of the findings\n" +
		"2. List 3-5 key findings (as a list)\n" +
		"3. Provide a clear business recommendation\n" +
		"4. Assess confidence level (High/Medium/Low)\n\n" +
		"Output ONLY a JSON object with these exact keys:\n" +
		"- summary (string)\n" +
		"- key_findings (list of strings)\n" +
		"- recommendation (string)\n" +
		"- confidence_level (string)\n\n" +
		"Do not include any markdown formatting or code blocks, just the raw JSON.", nil
}

func normalizeConfidence(level string) string {
	switch level {
	case models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow:
		return level
	default:
		return models.ConfidenceLow
	}
}
