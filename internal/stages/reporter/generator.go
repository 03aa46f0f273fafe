package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/liftlab/liftwire/pkg/genai"
	"github.com/liftlab/liftwire/pkg/models"
)

var now = func() time.Time { return time.Now().UTC() }

// DocumentGenerator produces one persona's HTML document body.
type DocumentGenerator interface {
	Document(ctx context.Context, insight *models.InsightRecord, persona models.Persona) (*models.ReportArtifact, error)
}

// Templated renders a fixed-layout document without a generation backend.
type Templated struct{}

func (Templated) Document(_ context.Context, insight *models.InsightRecord, persona models.Persona) (*models.ReportArtifact, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "<div class='report'>\n<h1>%s Report</h1>\n", persona.Label())
	fmt.Fprintf(&b, "<h2>Summary</h2>\n<p>%s</p>\n", html.EscapeString(insight.Summary))

	b.WriteString("<h2>Key Findings</h2>\n<ul>\n")

	for _, finding := range insight.KeyFindings {
		fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(finding))
	}

	b.WriteString("</ul>\n")
	fmt.Fprintf(&b, "<h2>Recommendation</h2>\n<p>%s</p>\n", html.EscapeString(insight.Recommendation))
	fmt.Fprintf(&b, "<p><em>Confidence: %s. Generated on %s.</em></p>\n</div>\n",
		html.EscapeString(insight.ConfidenceLevel), now().Format(time.RFC3339))

	return &models.ReportArtifact{
		Persona:     persona,
		Body:        b.String(),
		GeneratedAt: now(),
		Mock:        true,
	}, nil
}

// BackendBacked asks a generation backend to style the document per persona,
// falling back to the templated layout when the call fails.
type BackendBacked struct {
	Client genai.Client
}

var reportParams = genai.Params{
	Temperature: 0.4,
	MaxTokens:   4096,
}

func (g *BackendBacked) Document(ctx context.Context, insight *models.InsightRecord, persona models.Persona) (*models.ReportArtifact, error) {
	prompt, err := buildReportPrompt(insight, persona)
	if err != nil {
		return nil, err
	}

	raw, err := g.Client.Generate(ctx, prompt, reportParams)
	if err != nil {
		return Templated{}.Document(ctx, insight, persona)
	}

	return &models.ReportArtifact{
		Persona:     persona,
		Body:        genai.StripFences(raw),
		GeneratedAt: now(),
		Mock:        false,
	}, nil
}

func buildReportPrompt(insight *models.InsightRecord, persona models.Persona) (string, error) {
	encoded, err := json.MarshalIndent(insight, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode insight record: %w", err)
	}

	label := persona.Label()

	var b strings.Builder

	b.WriteString("You are a senior marketing communications specialist creating a report for a specific audience.\n\n")
	fmt.Fprintf(&b, "TARGET PERSONA: %s\n\n", label)
	b.WriteString("Create a concise, persona-specific HTML report (no <html>/<head>/<body> tags, just the inner <div> content).\n\n")
	b.WriteString("CRITICAL REQUIREMENTS:\n")
	fmt.Fprintf(&b, "1. The report MUST begin with: <h1>%s Report</h1>\n", label)
	fmt.Fprintf(&b, "2. Tailor ALL content specifically for the %s audience\n\n", label)
	fmt.Fprintf(&b, "PERSONA-SPECIFIC GUIDANCE FOR %s:\n%s\n\n", label, guidanceFor(persona))
	b.WriteString("STRUCTURE:\n")
	fmt.Fprintf(&b, "- <h1>%s Report</h1>\n", label)
	fmt.Fprintf(&b, "- <h2>Summary</h2> (2-3 sentences tailored to %s)\n", label)
	b.WriteString("- <h2>Key Findings</h2> (bullet list with <ul>/<li>)\n")
	fmt.Fprintf(&b, "- <h2>Recommendation</h2> (specific to %s's needs)\n", label)
	b.WriteString("- Use simple inline styling: <strong>, <em>, <ul>/<li>\n\n")
	fmt.Fprintf(&b, "INSIGHTS DATA:\n%s\n\n", string(encoded))
	b.WriteString("Output ONLY the HTML content, no markdown code blocks.\n")

	return b.String(), nil
}
