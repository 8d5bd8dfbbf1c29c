// Package publish serializes routed messages into broker envelopes and emits
// them. Publishing is the system's sole externally observable effect.
package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	errspkg "github.com/fiberline/orderflow/internal/runtime/errors"
	idspkg "github.com/fiberline/orderflow/internal/runtime/ids"
	"github.com/fiberline/orderflow/internal/runtime/jsoncodec"
	metadatapkg "github.com/fiberline/orderflow/internal/runtime/metadata"
	"github.com/fiberline/orderflow/internal/runtime/order"
	"github.com/fiberline/orderflow/internal/runtime/routing"
)

// Envelope is the wire format for routed orders: routing attributes plus the
// full order payload as body. The attributes are duplicated into message
// metadata so broker-side filters can match without reading the body.
type Envelope struct {
	CorrelationID      string       `json:"correlationId"`
	Instock            bool         `json:"instock"`
	RequiresTechnician bool         `json:"requiresTechnician"`
	Order              *order.Order `json:"order"`
}

// Notification is the customer-orders status message.
type Notification struct {
	CorrelationID string `json:"correlationId"`
	Status        string `json:"status"`
	// Reason is set on failure notifications and distinguishes bad input
	// from exhausted retries.
	Reason string `json:"reason,omitempty"`
}

// Notification statuses.
const (
	StatusReceived  = "received"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Error classifies publish failures. Broker unavailability is transient; an
// envelope the broker (or the size cap) rejects is permanent.
type Error struct {
	Transient bool
	Err       error
}

func (e *Error) Error() string {
	kind := "rejected"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("publish (%s): %v", kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Publisher emits routed envelopes and customer notifications onto the
// configured topics. Safe for concurrent use across order workers.
type Publisher struct {
	publisher     message.Publisher
	routerTopic   string
	customerTopic string
	sizeLimit     int
}

// NewPublisher wires a Publisher over a Watermill publisher. sizeLimit caps
// the serialized envelope in bytes; values <= 0 disable the cap.
func NewPublisher(pub message.Publisher, routerTopic, customerTopic string, sizeLimit int) (*Publisher, error) {
	if pub == nil {
		return nil, errspkg.ErrPublisherRequired
	}
	if routerTopic == "" || customerTopic == "" {
		return nil, errspkg.ErrTopicRequired
	}
	return &Publisher{
		publisher:     pub,
		routerTopic:   routerTopic,
		customerTopic: customerTopic,
		sizeLimit:     sizeLimit,
	}, nil
}

// NewMessageFromRouted converts a routed order into a Watermill message with
// the filterable attributes required by the subscription rules.
func (p *Publisher) NewMessageFromRouted(routed routing.RoutedMessage) (*message.Message, error) {
	if routed.Order == nil {
		return nil, errspkg.ErrEnvelopeRequired
	}

	envelope := Envelope{
		CorrelationID:      routed.CorrelationID,
		Instock:            routed.Instock,
		RequiresTechnician: routed.RequiresTechnician,
		Order:              routed.Order,
	}
	payload, err := jsoncodec.Marshal(envelope)
	if err != nil {
		return nil, &Error{Transient: false, Err: fmt.Errorf("marshal envelope: %w", err)}
	}
	if p.sizeLimit > 0 && len(payload) > p.sizeLimit {
		return nil, &Error{
			Transient: false,
			Err:       fmt.Errorf("envelope is %d bytes, exceeds limit of %d", len(payload), p.sizeLimit),
		}
	}

	md := metadatapkg.New(metadatapkg.KeyCorrelationID, routed.CorrelationID).
		WithBool(metadatapkg.KeyInstock, routed.Instock).
		WithBool(metadatapkg.KeyRequiresTechnician, routed.RequiresTechnician).
		With(metadatapkg.KeyEventSchema, fmt.Sprintf("%T", envelope))

	msg := message.NewMessage(idspkg.NewMessageID(), payload)
	msg.Metadata = metadatapkg.ToWatermill(md)
	return msg, nil
}

// PublishRouted emits the routed order onto the router-orders topic.
// Subscription filters on instock and requires_technician decide which
// consumers receive it.
func (p *Publisher) PublishRouted(ctx context.Context, routed routing.RoutedMessage) error {
	msg, err := p.NewMessageFromRouted(routed)
	if err != nil {
		return err
	}
	if ctx != nil {
		msg.SetContext(ctx)
	}

	if err := p.publisher.Publish(p.routerTopic, msg); err != nil {
		return classifyBrokerError(err)
	}
	return nil
}

// temporary is the conventional interface drivers use to mark failures that
// may succeed on retry.
type temporary interface {
	Temporary() bool
}

// classifyBrokerError maps a broker publish failure onto Error. Errors that
// declare themselves non-temporary are rejections and must not be retried;
// everything else counts as broker unavailability.
func classifyBrokerError(err error) *Error {
	var tmp temporary
	if errors.As(err, &tmp) && !tmp.Temporary() {
		return &Error{Transient: false, Err: err}
	}
	return &Error{Transient: true, Err: err}
}

// PublishNotification emits an order status update onto the customer-orders
// topic so the submitter can observe progress and terminal failures.
func (p *Publisher) PublishNotification(ctx context.Context, notification Notification) error {
	payload, err := jsoncodec.Marshal(notification)
	if err != nil {
		return &Error{Transient: false, Err: fmt.Errorf("marshal notification: %w", err)}
	}

	md := metadatapkg.New(
		metadatapkg.KeyCorrelationID, notification.CorrelationID,
		metadatapkg.KeyOrderStatus, notification.Status,
		metadatapkg.KeyEventSchema, fmt.Sprintf("%T", notification),
	)
	if notification.Reason != "" {
		md = md.With(metadatapkg.KeyFailureReason, notification.Reason)
	}

	msg := message.NewMessage(idspkg.NewMessageID(), payload)
	msg.Metadata = metadatapkg.ToWatermill(md)
	if ctx != nil {
		msg.SetContext(ctx)
	}

	if err := p.publisher.Publish(p.customerTopic, msg); err != nil {
		return classifyBrokerError(err)
	}
	return nil
}
