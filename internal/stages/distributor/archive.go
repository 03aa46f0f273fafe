package distributor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/models"
)

// Archive organizes the run's artifacts under an immutable run namespace for
// the data team, optionally notifying them by email with the report and
// generated code attached.
type Archive struct {
	Store     artifact.Store
	Mailer    Mailer
	Recipient string
	Logger    *slog.Logger
}

func (c *Archive) Name() string { return models.ChannelArchive }

func (c *Archive) Deliver(ctx context.Context, delivery Delivery) models.DistributionOutcome {
	if c.Store == nil {
		return models.DistributionOutcome{
			Status: models.OutcomeSkipped,
			Reason: "no_store",
		}
	}

	runID := delivery.Metadata.RunID
	archived := make([]string, 0, 8)

	insightsJSON, err := json.MarshalIndent(delivery.Insight, "", "  ")
	if err != nil {
		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: fmt.Sprintf("failed to encode insights: %v", err),
		}
	}

	if _, err := artifact.ArchiveVersion(ctx, c.Store, runID, insightsJSON, "application/json", "results", "insights.json"); err != nil {
		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: fmt.Sprintf("failed to archive insights: %v", err),
		}
	}

	archived = append(archived, "results/insights.json")

	metadataJSON, err := json.MarshalIndent(delivery.Metadata, "", "  ")
	if err == nil {
		if _, err := artifact.ArchiveVersion(ctx, c.Store, runID, metadataJSON, "application/json", "results", "metadata.json"); err == nil {
			archived = append(archived, "results/metadata.json")
		}
	}

	for persona, report := range delivery.Reports {
		if report == nil || report.Locator == "" {
			continue
		}

		name := strings.ReplaceAll(string(persona), "-", "_") + "_report.pdf"
		dst := artifact.RunPath(runID, "reports", name)

		if err := c.Store.Copy(ctx, report.Locator, dst); err != nil {
			c.Logger.WarnContext(ctx, "failed to archive report", "persona", persona, "error", err)

			continue
		}

		archived = append(archived, "reports/"+name)
	}

	if code := delivery.Metadata.Artifact; code != nil && code.Locator != "" {
		dst := artifact.RunPath(runID, "code", "analysis_script.py")
		if err := c.Store.Copy(ctx, code.Locator, dst); err != nil {
			c.Logger.WarnContext(ctx, "failed to archive code artifact", "error", err)
		} else {
			archived = append(archived, "code/analysis_script.py")
		}
	}

	c.notify(ctx, delivery, archived)

	return models.DistributionOutcome{
		Status:    models.OutcomeSuccess,
		Mode:      models.ModeLive,
		LocalPath: artifact.RunPath(runID),
	}
}

// notify emails the data team about the archived run. Notification problems
// never fail the archive itself.
func (c *Archive) notify(ctx context.Context, delivery Delivery, archived []string) {
	if c.Mailer == nil || c.Recipient == "" {
		return
	}

	runID := delivery.Metadata.RunID

	var attachments []Attachment

	if report := delivery.Report(models.PersonaDataTeam); report != nil && report.Locator != "" {
		if pdf, err := c.Store.Get(ctx, report.Locator); err == nil {
			attachments = append(attachments, Attachment{Filename: "data_team_report.pdf", Data: pdf})
		}
	}

	// The script ships as .txt so corporate mail filters do not strip it.
	if code := delivery.Metadata.Artifact; code != nil && code.Locator != "" {
		if source, err := c.Store.Get(ctx, code.Locator); err == nil {
			attachments = append(attachments, Attachment{Filename: "analysis_script.txt", Data: source})
		}
	}

	lines := make([]string, 0, len(archived))
	for _, path := range archived {
		lines = append(lines, "- "+path)
	}

	body := fmt.Sprintf(`Hello Data Team,

A new analysis run has completed.

Archive location: %s

Attached:
1. Analysis script (as .txt, rename to .py to use)
2. Data Team report (PDF)

Artifacts archived:
%s

Regards,
Liftwire Reporting
`, artifact.RunPath(runID), strings.Join(lines, "\n"))

	msg := EmailMessage{
		To:          c.Recipient,
		Subject:     fmt.Sprintf("Data Team: Analysis Run %s Artifacts", runID),
		Body:        body,
		Attachments: attachments,
	}

	if err := c.Mailer.Send(ctx, msg); err != nil {
		c.Logger.ErrorContext(ctx, "data team notification failed", "error", err)
	}
}
