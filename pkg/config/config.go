// Package config holds runtime configuration for the analysis pipeline.
//
// Every external integration is optional: a credential group that is absent
// or still carries placeholder values reports Live() == false, and the stage
// that depends on it falls back to its local behavior.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// placeholderFragments mark values copied straight out of a sample env file.
var placeholderFragments = []string{
	"your.",
	"your-",
	"example.com",
	"changeme",
	"webhook/...",
}

func isPlaceholder(value string) bool {
	lowered := strings.ToLower(value)
	for _, fragment := range placeholderFragments {
		if strings.Contains(lowered, fragment) {
			return true
		}
	}

	return false
}

// BackendConfig addresses an OpenAI-compatible generation backend.
type BackendConfig struct {
	BaseURL string `validate:"omitempty,url"`
	APIKey  string
	Model   string
}

// Live reports whether the backend can actually be called.
func (c BackendConfig) Live() bool {
	return c.BaseURL != "" && c.APIKey != "" &&
		!isPlaceholder(c.BaseURL) && !isPlaceholder(c.APIKey)
}

// WarehouseConfig addresses the execution warehouse.
type WarehouseConfig struct {
	DSN           string
	InsightsTable string
}

func (c WarehouseConfig) Live() bool {
	return c.DSN != "" && !isPlaceholder(c.DSN)
}

// SMTPConfig carries outbound mail credentials.
type SMTPConfig struct {
	Host     string
	Port     int `validate:"omitempty,min=1,max=65535"`
	Username string
	Password string
	Sender   string `validate:"omitempty,email"`
}

func (c SMTPConfig) Live() bool {
	return c.Host != "" && c.Sender != "" &&
		!isPlaceholder(c.Host) && !isPlaceholder(c.Sender)
}

// WebhookConfig addresses an incoming-webhook chat endpoint.
type WebhookConfig struct {
	URL string `validate:"omitempty,url"`
}

func (c WebhookConfig) Live() bool {
	return c.URL != "" && !isPlaceholder(c.URL)
}

// Recipients lists delivery addresses per audience.
type Recipients struct {
	Executive string `validate:"omitempty,email"`
	DataTeam  string `validate:"omitempty,email"`
}

// Config is the full pipeline configuration.
type Config struct {
	LogLevel     string
	ArtifactRoot string `validate:"required"`
	SemanticPath string
	DemoInboxDir string

	Backend    BackendConfig
	Warehouse  WarehouseConfig
	SMTP       SMTPConfig
	Webhook    WebhookConfig
	Recipients Recipients
}

var validate = validator.New()

// Validate checks field formats. Missing credentials are not errors; they
// select the demo path instead.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
