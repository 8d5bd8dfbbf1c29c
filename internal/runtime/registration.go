package runtime

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	errspkg "github.com/fiberline/orderflow/internal/runtime/errors"
	"github.com/fiberline/orderflow/internal/runtime/filter"
)

type handlerRegistration struct {
	Name         string
	ConsumeTopic string
	Subscriber   message.Subscriber
	PublishTopic string
	Publisher    message.Publisher
	Handler      message.HandlerFunc
	Filter       filter.Predicate
}

// MessageHandlerRegistration wires a raw Watermill handler without typed helpers.
type MessageHandlerRegistration struct {
	Name         string
	ConsumeTopic string
	PublishTopic string
	Handler      message.HandlerFunc
	Subscriber   message.Subscriber
	Publisher    message.Publisher

	// Filter narrows the handler to messages whose attributes match.
	// Non-matching messages are acknowledged without invoking the handler.
	Filter filter.Predicate
}

// RegisterMessageHandler attaches the provided handler to the service router.
func RegisterMessageHandler(svc *Service, cfg MessageHandlerRegistration) error {
	if svc == nil {
		return errspkg.ErrServiceRequired
	}

	return svc.registerHandler(handlerRegistration{
		Name:         cfg.Name,
		ConsumeTopic: cfg.ConsumeTopic,
		PublishTopic: cfg.PublishTopic,
		Subscriber:   cfg.Subscriber,
		Publisher:    cfg.Publisher,
		Handler:      cfg.Handler,
		Filter:       cfg.Filter,
	})
}

// RegisterSubscription attaches a handler for a named attribute-filtered
// subscription. The subscription's predicate decides which messages on the
// topic reach the handler; the rest are acknowledged untouched.
func RegisterSubscription(svc *Service, sub filter.Subscription, handler message.HandlerFunc) error {
	if svc == nil {
		return errspkg.ErrServiceRequired
	}

	return svc.registerHandler(handlerRegistration{
		Name:         sub.Name,
		ConsumeTopic: sub.Topic,
		Handler:      handler,
		Filter:       sub.Predicate,
	})
}

func (s *Service) registerHandler(cfg handlerRegistration) error {
	if cfg.Handler == nil {
		return errspkg.ErrHandlerRequired
	}
	if cfg.ConsumeTopic == "" {
		return errspkg.ErrConsumeTopicRequired
	}
	if cfg.Name == "" {
		return errspkg.ErrHandlerNameRequired
	}
	if cfg.Subscriber == nil {
		cfg.Subscriber = s.subscriber
	}
	if cfg.Publisher == nil {
		cfg.Publisher = s.publisher
	}

	stats := newHandlerStats(cfg.Name, cfg.ConsumeTopic, cfg.PublishTopic)
	info := &HandlerInfo{
		Name:         cfg.Name,
		ConsumeQueue: cfg.ConsumeTopic,
		PublishQueue: cfg.PublishTopic,
		Stats:        stats,
	}

	s.handlersMu.Lock()
	s.handlers = append(s.handlers, info)
	s.handlersMu.Unlock()

	cfg.Handler = wrapHandlerWithStats(cfg.Handler, stats, s.getErrorClassifier())

	handler := s.router.AddHandler(
		cfg.Name,
		cfg.ConsumeTopic,
		cfg.Subscriber,
		cfg.PublishTopic,
		cfg.Publisher,
		cfg.Handler,
	)

	if cfg.Filter != nil {
		handler.AddMiddleware(filter.Middleware(cfg.Filter))
	}

	return nil
}

func wrapHandlerWithStats(handler message.HandlerFunc, stats *HandlerStats, classifier ErrorClassifier) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		start := time.Now()
		msgs, err := handler(msg)
		duration := time.Since(start)

		stats.onMessageFinish(duration, err, classifier)

		return msgs, err
	}
}
