package executor

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema is the contract a successful procedure return must satisfy
// before metrics are extracted from it. Error returns only need status and
// error fields, so the schema is applied to success payloads.
const resultSchema = `{
  "type": "object",
  "required": [
    "status",
    "treatment_effect",
    "p_value",
    "incremental_lift_pct",
    "is_significant"
  ],
  "properties": {
    "status": {"type": "string", "enum": ["success"]},
    "treatment_effect": {"type": "number"},
    "p_value": {"type": "number"},
    "confidence_interval": {
      "type": "array",
      "items": {"type": "number"},
      "minItems": 2,
      "maxItems": 2
    },
    "treated_conversion_rate": {"type": "number"},
    "control_conversion_rate": {"type": "number"},
    "incremental_lift_pct": {"type": "number"},
    "sample_sizes": {"type": "object"},
    "is_significant": {"type": "integer", "enum": [0, 1]},
    "diagnostics": {"type": "object"}
  }
}`

var resultSchemaLoader = gojsonschema.NewStringLoader(resultSchema)

// validateShape checks a success payload against the result contract.
func validateShape(analysis map[string]any) error {
	validation, err := gojsonschema.Validate(resultSchemaLoader, gojsonschema.NewGoLoader(analysis))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if validation.Valid() {
		return nil
	}

	issues := make([]string, 0, len(validation.Errors()))
	for _, issue := range validation.Errors() {
		issues = append(issues, issue.String())
	}

	return fmt.Errorf("result violates contract: %s", strings.Join(issues, "; "))
}
