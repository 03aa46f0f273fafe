package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/liftlab/liftwire/pkg/events"
)

// WatermillEventBus routes run events over a watermill publisher/subscriber
// pair. The pipeline is single-run in-process, so the GoChannel pub/sub is
// the production channel; the interface leaves room for broker-backed ones.
type WatermillEventBus struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	subscriptions map[events.EventType]EventHandler
}

// NewGoChannelBus builds an in-memory bus.
func NewGoChannelBus(logger *slog.Logger) *WatermillEventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 64,
			Persistent:          false,
		},
		watermill.NewSlogLogger(logger),
	)

	return &WatermillEventBus{
		publisher:     pubSub,
		subscriber:    pubSub,
		subscriptions: make(map[events.EventType]EventHandler),
	}
}

func (b *WatermillEventBus) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewULID(), payload)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return b.publisher.Publish(events.Topic, msg)
}

func (b *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) {
	b.subscriptions[eventType] = handler
}

// Subscribe starts delivering events to registered handlers. Handlers must be
// registered before Subscribe is called.
func (b *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := b.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.Topic, err)
	}

	go func() {
		for msg := range messages {
			eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

			handler, exists := b.subscriptions[eventType]
			if !exists {
				msg.Ack()

				continue
			}

			event := decode(eventType, msg.Payload)
			if event == nil {
				msg.Ack()

				continue
			}

			if err := handler(ctx, event); err != nil {
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

func (b *WatermillEventBus) Close() error {
	return b.publisher.Close()
}

func decode(eventType events.EventType, payload []byte) any {
	var event any

	switch eventType {
	case events.RunStartedEvent:
		event = &events.RunStarted{}
	case events.RunCompletedEvent:
		event = &events.RunCompleted{}
	case events.RunFailedEvent:
		event = &events.RunFailed{}
	case events.StageStartedEvent:
		event = &events.StageStarted{}
	case events.StageCompletedEvent:
		event = &events.StageCompleted{}
	default:
		return nil
	}

	if err := json.Unmarshal(payload, event); err != nil {
		return nil
	}

	return event
}
