package distributor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/models"
)

// LiveEmail sends the executive report as a PDF attachment.
type LiveEmail struct {
	Mailer    Mailer
	Recipient string
	Store     artifact.Store
	Logger    *slog.Logger
}

func (c *LiveEmail) Name() string { return models.ChannelEmail }

func (c *LiveEmail) Deliver(ctx context.Context, delivery Delivery) models.DistributionOutcome {
	if c.Recipient == "" {
		return models.DistributionOutcome{
			Status: models.OutcomeSkipped,
			Reason: "no_recipient",
			Mode:   models.ModeLive,
		}
	}

	report := delivery.Report(models.PersonaExecutive)
	if report == nil || report.Locator == "" {
		return models.DistributionOutcome{
			Status: models.OutcomeSkipped,
			Reason: "no_pdf",
			Mode:   models.ModeLive,
		}
	}

	pdf, err := c.Store.Get(ctx, report.Locator)
	if err != nil {
		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: fmt.Sprintf("failed to load report: %v", err),
			Mode:   models.ModeLive,
		}
	}

	msg := EmailMessage{
		To:      c.Recipient,
		Subject: "Incrementality Analysis Results - " + time.Now().Format("2006-01-02"),
		Body:    executiveBody(delivery.Insight),
		Attachments: []Attachment{
			{Filename: "incrementality_report.pdf", Data: pdf},
		},
	}

	if err := c.Mailer.Send(ctx, msg); err != nil {
		c.Logger.ErrorContext(ctx, "executive email failed", "error", err)

		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: err.Error(),
			Mode:   models.ModeLive,
		}
	}

	return models.DistributionOutcome{
		Status:    models.OutcomeSuccess,
		Mode:      models.ModeLive,
		Recipient: c.Recipient,
	}
}

func executiveBody(insight *models.InsightRecord) string {
	summary := "Analysis completed successfully."
	effect := 0.0
	significant := "No"

	if insight != nil {
		if insight.Summary != "" {
			summary = insight.Summary
		}

		effect = insight.TreatmentEffect

		if insight.IsSignificant == 1 {
			significant = "Yes"
		}
	}

	return fmt.Sprintf(`Dear Executive Team,

Please find attached the latest Incrementality Analysis Report.

Executive Summary:
%s

Key Metrics:
- Treatment Effect: %.2f%%
- Significance: %s

Best regards,
Liftwire Reporting
`, summary, effect*100, significant)
}
