// Package distributor delivers a finished run to its audiences. Each channel
// is attempted independently and reports exactly one outcome; a channel whose
// credentials are absent falls back to a local demo simulation rather than
// failing.
package distributor

import (
	"context"
	"log/slog"
	"time"

	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/config"
	"github.com/liftlab/liftwire/pkg/models"
)

var timestamp = func() string { return time.Now().Format("20060102_150405") }

// Delivery bundles everything the channels need.
type Delivery struct {
	Reports  map[models.Persona]*models.ReportArtifact
	Insight  *models.InsightRecord
	Metadata models.RunMetadata
}

// Report returns one persona's artifact, or nil.
func (d Delivery) Report(p models.Persona) *models.ReportArtifact {
	return d.Reports[p]
}

// Channel delivers to one audience. Deliver never returns a Go error; every
// failure is encoded in the outcome.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, delivery Delivery) models.DistributionOutcome
}

// Stage fans a delivery out to its channels.
type Stage struct {
	channels []Channel
	logger   *slog.Logger
}

// NewStage builds the standard email, chat, and archive channels from the
// configuration, choosing live or simulated transports per credential group.
func NewStage(cfg config.Config, store artifact.Store, logger *slog.Logger) *Stage {
	logger = logger.With("stage", "distributor")

	var email Channel
	if cfg.SMTP.Live() {
		email = &LiveEmail{
			Mailer:    NewSMTPMailer(cfg.SMTP),
			Recipient: cfg.Recipients.Executive,
			Store:     store,
			Logger:    logger,
		}
	} else {
		email = &SimulatedEmail{InboxDir: cfg.DemoInboxDir, Store: store, Logger: logger}
	}

	var chat Channel
	if cfg.Webhook.Live() {
		chat = &LiveChat{URL: cfg.Webhook.URL, Logger: logger}
	} else {
		chat = &SimulatedChat{InboxDir: cfg.DemoInboxDir, Logger: logger}
	}

	archive := &Archive{
		Store:     store,
		Recipient: cfg.Recipients.DataTeam,
		Logger:    logger,
	}
	if cfg.SMTP.Live() {
		archive.Mailer = NewSMTPMailer(cfg.SMTP)
	}

	return NewStageWithChannels(logger, email, chat, archive)
}

// NewStageWithChannels wires an explicit channel set.
func NewStageWithChannels(logger *slog.Logger, channels ...Channel) *Stage {
	return &Stage{
		channels: channels,
		logger:   logger,
	}
}

// Distribute runs every channel and collects outcomes keyed by channel name.
func (s *Stage) Distribute(ctx context.Context, delivery Delivery) map[string]models.DistributionOutcome {
	outcomes := make(map[string]models.DistributionOutcome, len(s.channels))

	for _, channel := range s.channels {
		outcome := channel.Deliver(ctx, delivery)
		outcomes[channel.Name()] = outcome

		s.logger.InfoContext(ctx, "channel delivery finished",
			"channel", channel.Name(),
			"status", outcome.Status,
			"mode", outcome.Mode,
			"reason", outcome.Reason)
	}

	return outcomes
}
