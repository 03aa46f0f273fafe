// Package events defines event types for pipeline run lifecycle
// notifications.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/liftlab/liftwire/pkg/models"
)

type EventType string

const Topic = "liftwire.runs"

const EventTypeMetadataKey = "event_type"

const (
	RunStartedEvent     EventType = "run.started"
	RunCompletedEvent   EventType = "run.completed"
	RunFailedEvent      EventType = "run.failed"
	StageStartedEvent   EventType = "stage.started"
	StageCompletedEvent EventType = "stage.completed"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
}

func NewBase(runID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		RunID:     runID,
	}
}

type RunStarted struct {
	BaseEvent

	Request models.AnalysisRequest `json:"request"`
}

func (e RunStarted) GetType() EventType { return RunStartedEvent }

type RunCompleted struct {
	BaseEvent

	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration"`
}

func (e RunCompleted) GetType() EventType { return RunCompletedEvent }

type RunFailed struct {
	BaseEvent

	Stage string `json:"stage"`
	Error string `json:"error"`
}

func (e RunFailed) GetType() EventType { return RunFailedEvent }

type StageStarted struct {
	BaseEvent

	Stage string `json:"stage"`
}

func (e StageStarted) GetType() EventType { return StageStartedEvent }

type StageCompleted struct {
	BaseEvent

	Stage  string         `json:"stage"`
	Detail map[string]any `json:"detail,omitempty"`
}

func (e StageCompleted) GetType() EventType { return StageCompletedEvent }
