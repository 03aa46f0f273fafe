// Package cmd holds the flag definitions and dependency wiring shared by the
// liftwire command-line entrypoints.
package cmd

import (
	"strconv"

	cli "github.com/urfave/cli/v3"

	"github.com/liftlab/liftwire/pkg/config"
)

// ConfigFlags defines the configuration surface common to every entrypoint.
// All flags are optional: missing credential groups select demo behavior.
func ConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "artifact-root",
			Usage:   "Artifact store root directory",
			Value:   "./data/artifacts",
			Sources: cli.EnvVars("ARTIFACT_ROOT"),
		},
		&cli.StringFlag{
			Name:    "semantic-model",
			Usage:   "Path to the semantic model YAML (default locations probed when empty)",
			Sources: cli.EnvVars("SEMANTIC_MODEL_PATH"),
		},
		&cli.StringFlag{
			Name:    "demo-inbox",
			Usage:   "Directory for simulated channel deliveries",
			Value:   "./output/distribution",
			Sources: cli.EnvVars("DEMO_INBOX_DIR"),
		},
		&cli.StringFlag{
			Name:    "backend-url",
			Usage:   "Generation backend base URL",
			Sources: cli.EnvVars("BACKEND_URL"),
		},
		&cli.StringFlag{
			Name:    "backend-api-key",
			Usage:   "Generation backend API key",
			Sources: cli.EnvVars("BACKEND_API_KEY"),
		},
		&cli.StringFlag{
			Name:    "backend-model",
			Usage:   "Generation backend model name",
			Value:   "large-v2",
			Sources: cli.EnvVars("BACKEND_MODEL"),
		},
		&cli.StringFlag{
			Name:    "warehouse-dsn",
			Usage:   "Warehouse connection DSN",
			Sources: cli.EnvVars("WAREHOUSE_DSN"),
		},
		&cli.StringFlag{
			Name:    "insights-table",
			Usage:   "Insights table name",
			Value:   "agent_insights",
			Sources: cli.EnvVars("INSIGHTS_TABLE"),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP relay host",
			Sources: cli.EnvVars("SMTP_HOST"),
		},
		&cli.StringFlag{
			Name:    "smtp-port",
			Usage:   "SMTP relay port",
			Value:   "587",
			Sources: cli.EnvVars("SMTP_PORT"),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.EnvVars("SMTP_USERNAME"),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.EnvVars("SMTP_PASSWORD"),
		},
		&cli.StringFlag{
			Name:    "email-sender",
			Usage:   "From address for outbound mail",
			Sources: cli.EnvVars("EMAIL_SENDER"),
		},
		&cli.StringFlag{
			Name:    "webhook-url",
			Usage:   "Chat incoming-webhook URL",
			Sources: cli.EnvVars("CHAT_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:    "executive-email",
			Usage:   "Executive report recipient",
			Sources: cli.EnvVars("EXECUTIVE_EMAIL"),
		},
		&cli.StringFlag{
			Name:    "data-team-email",
			Usage:   "Data team notification recipient",
			Sources: cli.EnvVars("DATA_TEAM_EMAIL"),
		},
	}
}

// BuildConfig assembles the configuration from parsed flags.
func BuildConfig(command *cli.Command) config.Config {
	port, err := strconv.Atoi(command.String("smtp-port"))
	if err != nil {
		port = 587
	}

	return config.Config{
		LogLevel:     command.String("log-level"),
		ArtifactRoot: command.String("artifact-root"),
		SemanticPath: command.String("semantic-model"),
		DemoInboxDir: command.String("demo-inbox"),
		Backend: config.BackendConfig{
			BaseURL: command.String("backend-url"),
			APIKey:  command.String("backend-api-key"),
			Model:   command.String("backend-model"),
		},
		Warehouse: config.WarehouseConfig{
			DSN:           command.String("warehouse-dsn"),
			InsightsTable: command.String("insights-table"),
		},
		SMTP: config.SMTPConfig{
			Host:     command.String("smtp-host"),
			Port:     port,
			Username: command.String("smtp-username"),
			Password: command.String("smtp-password"),
			Sender:   command.String("email-sender"),
		},
		Webhook: config.WebhookConfig{
			URL: command.String("webhook-url"),
		},
		Recipients: config.Recipients{
			Executive: command.String("executive-email"),
			DataTeam:  command.String("data-team-email"),
		},
	}
}
