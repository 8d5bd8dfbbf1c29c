package errors

import sterrors "errors"

var (
	ErrServiceRequired      = sterrors.New("orderflow: service is required")
	ErrHandlerRequired      = sterrors.New("orderflow: handler function is required")
	ErrHandlerNameRequired  = sterrors.New("orderflow: handler name is required")
	ErrConsumeTopicRequired = sterrors.New("orderflow: consume topic is required")
	ErrPublisherRequired    = sterrors.New("orderflow: publisher is required")
	ErrTopicRequired        = sterrors.New("orderflow: topic is required")
	ErrEnvelopeRequired     = sterrors.New("orderflow: routed envelope is required")
	ErrPredicateRequired    = sterrors.New("orderflow: subscription predicate is required")
	ErrEventPayloadRequired = sterrors.New("orderflow: event payload is required")

	ErrConsumeMessageTypeRequired  = sterrors.New("orderflow: consume message type is required")
	ErrConsumeMessagePointerNeeded = sterrors.New("orderflow: consume message type must be a pointer")
)
