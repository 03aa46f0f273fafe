package distributor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/models"
)

// DefaultInboxDir is where demo deliveries land when none is configured.
const DefaultInboxDir = "output/distribution"

// SimulatedEmail writes the email body and report PDF into a local inbox
// directory instead of sending anything.
type SimulatedEmail struct {
	InboxDir string
	Store    artifact.Store
	Logger   *slog.Logger
}

func (c *SimulatedEmail) Name() string { return models.ChannelEmail }

func (c *SimulatedEmail) Deliver(ctx context.Context, delivery Delivery) models.DistributionOutcome {
	inbox, err := ensureInbox(c.InboxDir, "Executive_Inbox")
	if err != nil {
		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: err.Error(),
			Mode:   models.ModeDemo,
		}
	}

	ts := timestamp()

	summary := "N/A"
	if delivery.Insight != nil && delivery.Insight.Summary != "" {
		summary = delivery.Insight.Summary
	}

	body := fmt.Sprintf("Subject: Incrementality Analysis Results\nTo: Executive Team\n\nExecutive Summary:\n%s\n", summary)

	bodyPath := filepath.Join(inbox, "Email_Body_"+ts+".txt")
	if err := os.WriteFile(bodyPath, []byte(body), 0o644); err != nil {
		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: fmt.Sprintf("failed to write email body: %v", err),
			Mode:   models.ModeDemo,
		}
	}

	if report := delivery.Report(models.PersonaExecutive); report != nil && report.Locator != "" && c.Store != nil {
		if pdf, err := c.Store.Get(ctx, report.Locator); err == nil {
			pdfPath := filepath.Join(inbox, "Report_"+ts+".pdf")
			if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
				c.Logger.WarnContext(ctx, "failed to copy demo report", "error", err)
			}
		}
	}

	return models.DistributionOutcome{
		Status:    models.OutcomeSuccess,
		Mode:      models.ModeDemo,
		LocalPath: inbox,
	}
}

// SimulatedChat writes a chat transcript file into a local inbox directory.
type SimulatedChat struct {
	InboxDir string
	Logger   *slog.Logger
}

func (c *SimulatedChat) Name() string { return models.ChannelChat }

func (c *SimulatedChat) Deliver(_ context.Context, delivery Delivery) models.DistributionOutcome {
	inbox, err := ensureInbox(c.InboxDir, "Operations_Channel")
	if err != nil {
		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: err.Error(),
			Mode:   models.ModeDemo,
		}
	}

	path := filepath.Join(inbox, "Chat_Message_"+timestamp()+".txt")

	transcript := "[BOT] posted in Operations:\n\n" + chatMessage(delivery)
	if err := os.WriteFile(path, []byte(transcript), 0o644); err != nil {
		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: fmt.Sprintf("failed to write chat transcript: %v", err),
			Mode:   models.ModeDemo,
		}
	}

	return models.DistributionOutcome{
		Status:    models.OutcomeSuccess,
		Mode:      models.ModeDemo,
		LocalPath: inbox,
	}
}

func ensureInbox(base, folder string) (string, error) {
	if base == "" {
		base = DefaultInboxDir
	}

	inbox := filepath.Join(base, folder)
	if err := os.MkdirAll(inbox, 0o755); err != nil {
		return "", fmt.Errorf("failed to create demo inbox %s: %w", inbox, err)
	}

	return inbox, nil
}
