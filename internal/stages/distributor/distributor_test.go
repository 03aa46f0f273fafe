package distributor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/artifact/file"
	"github.com/liftlab/liftwire/pkg/config"
	"github.com/liftlab/liftwire/pkg/models"
)

func testDelivery(t *testing.T, store artifact.Store) Delivery {
	t.Helper()

	ctx := context.Background()
	reports := make(map[models.Persona]*models.ReportArtifact)

	for _, persona := range models.AllPersonas() {
		locator := artifact.LatestReportPath(persona)
		require.NoError(t, store.Put(ctx, locator, []byte("%PDF "+string(persona)), "application/pdf"))

		reports[persona] = &models.ReportArtifact{Persona: persona, Body: "<h1>ok</h1>", Locator: locator}
	}

	require.NoError(t, store.Put(ctx, artifact.LatestCodePath, []byte("def main(context): pass"), "text/x-python"))

	return Delivery{
		Reports: reports,
		Insight: &models.InsightRecord{
			Summary:            "Email drove a 33.3% lift.",
			ConfidenceLevel:    models.ConfidenceHigh,
			IncrementalLiftPct: 33.3,
			IsSignificant:      1,
			TreatmentEffect:    0.045,
		},
		Metadata: models.RunMetadata{
			RunID:    "run-7",
			Artifact: &models.CodeArtifact{Locator: artifact.LatestCodePath},
		},
	}
}

type recordingMailer struct {
	sent []EmailMessage
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg EmailMessage) error {
	m.sent = append(m.sent, msg)

	return m.err
}

func TestStage_Distribute_OneOutcomePerChannel(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	cfg := config.Config{DemoInboxDir: t.TempDir()}
	stage := NewStage(cfg, store, slog.Default())

	outcomes := stage.Distribute(context.Background(), testDelivery(t, store))

	require.Len(t, outcomes, 3)
	assert.Contains(t, outcomes, models.ChannelEmail)
	assert.Contains(t, outcomes, models.ChannelChat)
	assert.Contains(t, outcomes, models.ChannelArchive)
}

func TestNewStage_PlaceholderCredentialsUseDemoMode(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	cfg := config.Config{
		DemoInboxDir: t.TempDir(),
		SMTP:         config.SMTPConfig{Host: "smtp.example.com", Sender: "bot@example.com"},
		Webhook:      config.WebhookConfig{URL: "https://outlook.office.com/webhook/..."},
	}

	stage := NewStage(cfg, store, slog.Default())
	outcomes := stage.Distribute(context.Background(), testDelivery(t, store))

	assert.Equal(t, models.ModeDemo, outcomes[models.ChannelEmail].Mode)
	assert.Equal(t, models.OutcomeSuccess, outcomes[models.ChannelEmail].Status)
	assert.Equal(t, models.ModeDemo, outcomes[models.ChannelChat].Mode)
	assert.Equal(t, models.OutcomeSuccess, outcomes[models.ChannelChat].Status)
	assert.Equal(t, models.OutcomeSuccess, outcomes[models.ChannelArchive].Status)
}

func TestLiveEmail_Deliver(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	delivery := testDelivery(t, store)
	mailer := &recordingMailer{}

	channel := &LiveEmail{Mailer: mailer, Recipient: "cmo@corp.internal", Store: store, Logger: slog.Default()}

	outcome := channel.Deliver(context.Background(), delivery)

	assert.Equal(t, models.OutcomeSuccess, outcome.Status)
	assert.Equal(t, models.ModeLive, outcome.Mode)
	assert.Equal(t, "cmo@corp.internal", outcome.Recipient)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Contains(t, msg.Subject, "Incrementality Analysis Results")
	assert.Contains(t, msg.Body, "Email drove a 33.3% lift.")
	assert.Contains(t, msg.Body, "Significance: Yes")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "incrementality_report.pdf", msg.Attachments[0].Filename)
}

func TestLiveEmail_Deliver_Skips(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	delivery := testDelivery(t, store)

	noRecipient := &LiveEmail{Mailer: &recordingMailer{}, Store: store, Logger: slog.Default()}
	outcome := noRecipient.Deliver(context.Background(), delivery)
	assert.Equal(t, models.OutcomeSkipped, outcome.Status)
	assert.Equal(t, "no_recipient", outcome.Reason)

	delivery.Reports[models.PersonaExecutive].Locator = ""
	noPDF := &LiveEmail{Mailer: &recordingMailer{}, Recipient: "cmo@corp.internal", Store: store, Logger: slog.Default()}
	outcome = noPDF.Deliver(context.Background(), delivery)
	assert.Equal(t, models.OutcomeSkipped, outcome.Status)
	assert.Equal(t, "no_pdf", outcome.Reason)
}

func TestLiveEmail_Deliver_SendFailure(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	delivery := testDelivery(t, store)
	mailer := &recordingMailer{err: errors.New("relay refused")}

	channel := &LiveEmail{Mailer: mailer, Recipient: "cmo@corp.internal", Store: store, Logger: slog.Default()}

	outcome := channel.Deliver(context.Background(), delivery)

	assert.Equal(t, models.OutcomeFailed, outcome.Status)
	assert.Contains(t, outcome.Reason, "relay refused")
}

func TestLiveChat_Deliver(t *testing.T) {
	var received map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	channel := &LiveChat{URL: server.URL, Logger: slog.Default()}
	outcome := channel.Deliver(context.Background(), testDelivery(t, store))

	assert.Equal(t, models.OutcomeSuccess, outcome.Status)
	require.Contains(t, received, "text")
	assert.Contains(t, received["text"], "Incremental Lift:** 33.30%")
	assert.Contains(t, received["text"], "Significant")
	assert.Contains(t, received["text"], "High")
}

func TestLiveChat_Deliver_RejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	channel := &LiveChat{URL: server.URL, Logger: slog.Default()}
	outcome := channel.Deliver(context.Background(), testDelivery(t, store))

	assert.Equal(t, models.OutcomeFailed, outcome.Status)
	assert.Contains(t, outcome.Reason, "HTTP 400")
}

func TestArchive_Deliver(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	delivery := testDelivery(t, store)
	mailer := &recordingMailer{}

	channel := &Archive{Store: store, Mailer: mailer, Recipient: "data@corp.internal", Logger: slog.Default()}

	outcome := channel.Deliver(context.Background(), delivery)

	require.Equal(t, models.OutcomeSuccess, outcome.Status)
	assert.Contains(t, outcome.LocalPath, "analysis_runs/run-7")

	ctx := context.Background()

	insights, err := store.Get(ctx, artifact.RunPath("run-7", "results", "insights.json"))
	require.NoError(t, err)

	var record models.InsightRecord
	require.NoError(t, json.Unmarshal(insights, &record))
	assert.Equal(t, "Email drove a 33.3% lift.", record.Summary)

	_, err = store.Get(ctx, artifact.RunPath("run-7", "results", "metadata.json"))
	require.NoError(t, err)

	for _, name := range []string{"executive_report.pdf", "operations_report.pdf", "data_team_report.pdf"} {
		_, err = store.Get(ctx, artifact.RunPath("run-7", "reports", name))
		require.NoError(t, err, name)
	}

	code, err := store.Get(ctx, artifact.RunPath("run-7", "code", "analysis_script.py"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "def main(context)")

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Contains(t, msg.Subject, "run-7")
	assert.Contains(t, msg.Body, "results/insights.json")
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "data_team_report.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, "analysis_script.txt", msg.Attachments[1].Filename)
}

func TestArchive_Deliver_NoStore(t *testing.T) {
	channel := &Archive{Logger: slog.Default()}

	outcome := channel.Deliver(context.Background(), Delivery{Metadata: models.RunMetadata{RunID: "run-8"}})

	assert.Equal(t, models.OutcomeSkipped, outcome.Status)
	assert.Equal(t, "no_store", outcome.Reason)
}

func TestArchive_Deliver_NotificationFailureDoesNotFailArchive(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	delivery := testDelivery(t, store)
	mailer := &recordingMailer{err: errors.New("relay refused")}

	channel := &Archive{Store: store, Mailer: mailer, Recipient: "data@corp.internal", Logger: slog.Default()}

	outcome := channel.Deliver(context.Background(), delivery)

	assert.Equal(t, models.OutcomeSuccess, outcome.Status)
}

func TestSimulatedEmail_Deliver(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	inboxRoot := t.TempDir()
	channel := &SimulatedEmail{InboxDir: inboxRoot, Store: store, Logger: slog.Default()}

	outcome := channel.Deliver(context.Background(), testDelivery(t, store))

	require.Equal(t, models.OutcomeSuccess, outcome.Status)
	assert.Equal(t, models.ModeDemo, outcome.Mode)
	assert.Equal(t, filepath.Join(inboxRoot, "Executive_Inbox"), outcome.LocalPath)

	entries, err := os.ReadDir(outcome.LocalPath)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var sawBody, sawPDF bool

	for _, entry := range entries {
		switch {
		case filepath.Ext(entry.Name()) == ".txt":
			sawBody = true

			content, err := os.ReadFile(filepath.Join(outcome.LocalPath, entry.Name()))
			require.NoError(t, err)
			assert.Contains(t, string(content), "Email drove a 33.3% lift.")
		case filepath.Ext(entry.Name()) == ".pdf":
			sawPDF = true
		}
	}

	assert.True(t, sawBody)
	assert.True(t, sawPDF)
}

func TestSimulatedChat_Deliver(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	require.NoError(t, err)

	inboxRoot := t.TempDir()
	channel := &SimulatedChat{InboxDir: inboxRoot, Logger: slog.Default()}

	outcome := channel.Deliver(context.Background(), testDelivery(t, store))

	require.Equal(t, models.OutcomeSuccess, outcome.Status)

	entries, err := os.ReadDir(outcome.LocalPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	content, err := os.ReadFile(filepath.Join(outcome.LocalPath, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[BOT] posted in Operations")
	assert.Contains(t, string(content), "33.30%")
}
