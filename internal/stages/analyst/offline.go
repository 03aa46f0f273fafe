package analyst

import (
	"context"

	"github.com/liftlab/liftwire/pkg/genai"
)

// OfflineClient stands in for the generation backend when no credentials are
// configured. It returns a fixed handler so demo runs still exercise the
// full artifact, execution, and distribution path.
type OfflineClient struct{}

func (OfflineClient) Generate(_ context.Context, _ string, _ genai.Params) (string, error) {
	return offlineSource, nil
}

const offlineSource = `import json


def main(context):
    # Offline placeholder produced without a generation backend. It reports
    # a deterministic mock result in the standard contract shape.
    try:
        return {
            "status": "success",
            "treatment_effect": 0.045,
            "p_value": 0.012,
            "confidence_interval": [0.02, 0.07],
            "treated_conversion_rate": 0.18,
            "control_conversion_rate": 0.135,
            "incremental_lift_pct": 33.3,
            "sample_sizes": {"treated": 5000, "control": 5000},
            "is_significant": 1,
            "diagnostics": {"mode": "offline"},
        }
    except Exception as e:
        return {"status": "error", "error": str(e)}
`
