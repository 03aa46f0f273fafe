package analyst

import (
	"fmt"
	"strings"

	"github.com/liftlab/liftwire/pkg/models"
	"github.com/liftlab/liftwire/pkg/semantic"
)

// buildPrompt assembles the deterministic code-generation prompt. The same
// request and semantic model always produce the same prompt, so retries only
// vary through backend sampling.
func buildPrompt(model *semantic.Model, request models.AnalysisRequest) string {
	var b strings.Builder

	b.WriteString("You are an expert data scientist specializing in causal inference and incrementality analysis.\n\n")

	b.WriteString("SEMANTIC MODEL:\n")
	b.WriteString(model.YAML())
	b.WriteString("\n")

	b.WriteString("ANALYSIS REQUEST:\n")
	fmt.Fprintf(&b, "- Table: %s\n", request.Table)
	fmt.Fprintf(&b, "- Treatment Variable: %s\n", request.Treatment)
	fmt.Fprintf(&b, "- Outcome Variable: %s\n", request.Outcome)
	fmt.Fprintf(&b, "- Covariates: %s\n", strings.Join(request.Covariates, ", "))
	fmt.Fprintf(&b, "- Method: %s\n", request.Method)
	fmt.Fprintf(&b, "- Business Question: %s\n\n", request.Question())

	b.WriteString(`TASK:
Generate a Python script body for a warehouse stored procedure that:

1. Defines a handler function named main(context).
   - context is the database adapter provided by the warehouse runtime.
   - Load rows with context.execute("SELECT * FROM ` + request.Table + `")
     and build a pandas DataFrame from the result.
   - Do NOT open your own database connection.
   - Immediately normalize column names to lowercase.

2. Validates the data.
   - Check that the treatment, outcome, and covariate columns exist.
   - Check for null values in those columns and fill them (median for
     numeric, mode otherwise).
   - One-hot encode all remaining categorical columns and sanitize column
     names to remove spaces and special characters.
   - Replace infinite values and drop zero-variance covariates, keeping the
     original covariates if filtering would remove everything.

3. Estimates the treatment effect with the requested method (` + request.Method + `).
   - For propensity methods, fit propensity scores with logistic regression
     and match treated to control units 1:1 nearest neighbor.
   - Fit the outcome model with statsmodels; if the fit fails, fall back to
     a two-sample t-test.
   - Compute the average treatment effect, 95% confidence interval, and
     p-value.

4. Returns a plain Python dictionary with exactly this shape:
   {
     "status": "success",
     "treatment_effect": float,
     "p_value": float,
     "confidence_interval": [lower, upper],
     "treated_conversion_rate": float,
     "control_conversion_rate": float,
     "incremental_lift_pct": float,
     "sample_sizes": dict,
     "is_significant": int (1 or 0, NOT bool),
     "diagnostics": dict
   }
   On any failure return {"status": "error", "error": str(e)} instead.

REQUIREMENTS:
- Use only pandas, numpy, scipy.stats, sklearn, and statsmodels.
- Convert ALL boolean values to int (1/0) before returning.
- Do NOT print to stdout and do NOT include an if __name__ == "__main__" block.
- Do NOT use np.float_, np.int_, or np.bool_; use np.float64, np.int64, or
  native Python types.

Generate ONLY the Python code, no markdown formatting.
`)

	return b.String()
}
