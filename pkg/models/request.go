// Package models defines the domain records that flow through the analysis
// pipeline: the request, the generated code artifact, the execution result,
// the derived insight, persona reports and distribution outcomes.
package models

// AnalysisRequest identifies one pipeline run. It is immutable once created;
// every stage receives it by value.
type AnalysisRequest struct {
	Table            string   `json:"table"             validate:"required"`
	Treatment        string   `json:"treatment"         validate:"required"`
	Outcome          string   `json:"outcome"           validate:"required"`
	Covariates       []string `json:"covariates"        validate:"required,min=1,dive,required"`
	Method           string   `json:"method"            validate:"required"`
	BusinessQuestion string   `json:"business_question"`
}

// Question returns the business question, falling back to a generic one so
// prompt construction stays deterministic for requests without context text.
func (r AnalysisRequest) Question() string {
	if r.BusinessQuestion != "" {
		return r.BusinessQuestion
	}

	return "Measure the incremental impact of the treatment on the outcome"
}
