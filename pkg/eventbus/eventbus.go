// Package eventbus carries pipeline run lifecycle events between the
// orchestrator and in-process consumers such as the CLI progress logger.
package eventbus

import (
	"context"

	"github.com/liftlab/liftwire/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

type EventHandler func(ctx context.Context, event any) error

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler)
	Subscribe(ctx context.Context) error
}

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
}
