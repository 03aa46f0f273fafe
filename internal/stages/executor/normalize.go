package executor

import (
	"encoding/json"
	"fmt"

	"github.com/liftlab/liftwire/pkg/models"
)

const rawPreviewLimit = 1000

// normalize converts a raw warehouse return value into an ExecutionResult.
// Procedures return JSON text; a driver may also surface an already-decoded
// mapping. Anything else is a failure with the raw value preserved.
func normalize(raw any) *models.ExecutionResult {
	switch value := raw.(type) {
	case string:
		analysis := make(map[string]any)
		if err := json.Unmarshal([]byte(value), &analysis); err != nil {
			result := failedResult("result is not valid JSON")
			result.RawOutput = truncate(value, rawPreviewLimit)

			return result
		}

		return fromAnalysis(analysis, value)
	case []byte:
		return normalize(string(value))
	case map[string]any:
		encoded, _ := json.Marshal(value)

		return fromAnalysis(value, string(encoded))
	default:
		result := failedResult(fmt.Sprintf("unexpected result type %T", raw))
		result.RawOutput = truncate(fmt.Sprintf("%v", raw), rawPreviewLimit)

		return result
	}
}

func fromAnalysis(analysis map[string]any, rawOutput string) *models.ExecutionResult {
	status, _ := analysis["status"].(string)

	result := &models.ExecutionResult{
		Success:   status == models.ExecutionStatusSuccess,
		Status:    status,
		Analysis:  analysis,
		RawOutput: truncate(rawOutput, rawPreviewLimit),
	}

	if !result.Success {
		if result.Status == "" {
			result.Status = models.ExecutionStatusError
		}

		result.Error = stringField(analysis, "error", "unknown error")

		return result
	}

	if err := validateShape(analysis); err != nil {
		result.Success = false
		result.Status = models.ExecutionStatusError
		result.Error = err.Error()

		return result
	}

	result.Metrics = extractMetrics(analysis)
	result.Diagnostics, _ = analysis["diagnostics"].(map[string]any)

	return result
}

func extractMetrics(analysis map[string]any) models.Metrics {
	metrics := models.Metrics{
		TreatmentEffect:       floatField(analysis, "treatment_effect"),
		PValue:                floatField(analysis, "p_value"),
		TreatedConversionRate: floatField(analysis, "treated_conversion_rate"),
		ControlConversionRate: floatField(analysis, "control_conversion_rate"),
		IncrementalLiftPct:    floatField(analysis, "incremental_lift_pct"),
		IsSignificant:         int(floatField(analysis, "is_significant")),
	}

	if interval, ok := analysis["confidence_interval"].([]any); ok {
		for _, bound := range interval {
			if f, ok := toFloat(bound); ok {
				metrics.ConfidenceInterval = append(metrics.ConfidenceInterval, f)
			}
		}
	}

	if sizes, ok := analysis["sample_sizes"].(map[string]any); ok {
		metrics.SampleSizes = make(map[string]int64, len(sizes))

		for name, size := range sizes {
			if f, ok := toFloat(size); ok {
				metrics.SampleSizes[name] = int64(f)
			}
		}
	}

	return metrics
}

func failedResult(reason string) *models.ExecutionResult {
	return &models.ExecutionResult{
		Success: false,
		Status:  models.ExecutionStatusError,
		Error:   reason,
	}
}

func stringField(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}

	return fallback
}

func floatField(m map[string]any, key string) float64 {
	f, _ := toFloat(m[key])

	return f
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()

		return f, err == nil
	default:
		return 0, false
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit]
}
