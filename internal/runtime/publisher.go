package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	errspkg "github.com/fiberline/orderflow/internal/runtime/errors"
	idspkg "github.com/fiberline/orderflow/internal/runtime/ids"
	jsoncodec "github.com/fiberline/orderflow/internal/runtime/jsoncodec"
	metadatapkg "github.com/fiberline/orderflow/internal/runtime/metadata"
)

// Producer emits JSON events onto the configured transport.
type Producer interface {
	PublishJSON(ctx context.Context, topic string, event any, metadata metadatapkg.Metadata) error
}

// NewMessageFromJSON converts the provided event into a Watermill message with
// the standard metadata required by the order pipeline.
func NewMessageFromJSON(event any, metadata metadatapkg.Metadata) (*message.Message, error) {
	if event == nil {
		return nil, errspkg.ErrEventPayloadRequired
	}

	payload, err := jsoncodec.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(idspkg.NewMessageID(), payload)
	msg.Metadata = metadatapkg.ToWatermill(metadata)
	msg.Metadata[metadatapkg.KeyEventSchema] = fmt.Sprintf("%T", event)
	return msg, nil
}

// PublishJSON marshals the payload and publishes it to the provided topic.
func PublishJSON(ctx context.Context, publisher message.Publisher, topic string, event any, metadata metadatapkg.Metadata) error {
	if publisher == nil {
		return errspkg.ErrPublisherRequired
	}
	if topic == "" {
		return errspkg.ErrTopicRequired
	}

	msg, err := NewMessageFromJSON(event, metadata)
	if err != nil {
		return err
	}

	if ctx != nil {
		msg.SetContext(ctx)
	}

	return publisher.Publish(topic, msg)
}

// Publish sends a prepared Watermill message to the topic using the Service
// publisher. Most callers want PublishJSON; this variant exists for raw
// payloads such as intake documents.
func (s *Service) Publish(ctx context.Context, topic string, msg *message.Message) error {
	if s == nil {
		return errors.New("order service is nil")
	}
	if s.publisher == nil {
		return errspkg.ErrPublisherRequired
	}
	if topic == "" {
		return errspkg.ErrTopicRequired
	}
	if ctx != nil {
		msg.SetContext(ctx)
	}
	return s.publisher.Publish(topic, msg)
}

// PublishJSON emits the event using the Service publisher so callers can
// create events without touching the internal Watermill APIs directly.
func (s *Service) PublishJSON(ctx context.Context, topic string, event any, metadata metadatapkg.Metadata) error {
	if s == nil {
		return errors.New("order service is nil")
	}
	return PublishJSON(ctx, s.publisher, topic, event, metadata)
}
