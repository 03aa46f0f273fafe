package distributor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/liftlab/liftwire/pkg/models"
)

// LiveChat posts a summary message to an incoming-webhook endpoint. Delivery
// is single-shot; the channel is informational and a failed post is recorded,
// not retried.
type LiveChat struct {
	URL    string
	Client *http.Client
	Logger *slog.Logger
}

func (c *LiveChat) Name() string { return models.ChannelChat }

const chatTimeout = 10 * time.Second

func (c *LiveChat) Deliver(ctx context.Context, delivery Delivery) models.DistributionOutcome {
	payload, err := json.Marshal(map[string]string{
		"text": chatMessage(delivery),
	})
	if err != nil {
		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: fmt.Sprintf("failed to encode message: %v", err),
			Mode:   models.ModeLive,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: err.Error(),
			Mode:   models.ModeLive,
		}
	}

	req.Header.Set("Content-Type", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		c.Logger.ErrorContext(ctx, "chat webhook failed", "error", err)

		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: err.Error(),
			Mode:   models.ModeLive,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return models.DistributionOutcome{
			Status: models.OutcomeFailed,
			Reason: fmt.Sprintf("webhook returned HTTP %d", resp.StatusCode),
			Mode:   models.ModeLive,
		}
	}

	return models.DistributionOutcome{
		Status: models.OutcomeSuccess,
		Mode:   models.ModeLive,
	}
}

func chatMessage(delivery Delivery) string {
	insight := delivery.Insight

	lift := 0.0
	significance := "Not Significant"
	confidence := models.ConfidenceLow
	summary := "Analysis completed successfully."

	if insight != nil {
		lift = insight.IncrementalLiftPct

		if insight.IsSignificant == 1 {
			significance = "Significant"
		}

		if insight.ConfidenceLevel != "" {
			confidence = insight.ConfidenceLevel
		}

		if insight.Summary != "" {
			summary = insight.Summary
		}
	}

	locator := "not archived"
	if report := delivery.Report(models.PersonaOperations); report != nil && report.Locator != "" {
		locator = report.Locator
	}

	return fmt.Sprintf(`### Incrementality Analysis Results

**Operations Report** - %s

*   **Incremental Lift:** %.2f%%
*   **Significance:** %s
*   **Confidence:** %s

**Executive Summary:**
%s

Report: %s
`, time.Now().Format("2006-01-02 15:04"), lift, significance, confidence, summary, locator)
}
