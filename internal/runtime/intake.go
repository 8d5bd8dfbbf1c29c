package runtime

import (
	"github.com/ThreeDotsLabs/watermill/message"

	loggingpkg "github.com/fiberline/orderflow/internal/runtime/logging"
	"github.com/fiberline/orderflow/internal/runtime/workflow"
)

// IntakeHandlerName identifies the handler consuming raw order documents.
const IntakeHandlerName = "order-intake"

// RegisterIntakeHandler subscribes the orchestration workflow to the intake
// topic. Each raw document runs through transform, stock check, routing, and
// publication. Documents that cannot be transformed are handed to the poison
// queue; orders that fail after exhausting retries have already produced a
// failure notification and are acknowledged so they are not reprocessed.
func (s *Service) RegisterIntakeHandler() error {
	return s.registerHandler(handlerRegistration{
		Name:         IntakeHandlerName,
		ConsumeTopic: s.Conf.GetIntakeTopic(),
		Handler:      s.intakeHandler(),
	})
}

func (s *Service) intakeHandler() message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		result := s.workflow.Run(msg.Context(), msg.Payload)
		if !result.Failed() {
			return nil, nil
		}

		s.Logger.Error("Order processing failed", result.Err, loggingpkg.LogFields{
			"message_uuid":   msg.UUID,
			"failure_reason": string(result.FailureReason),
		})

		switch result.FailureReason {
		case workflow.ReasonBadInput:
			return nil, NewUnprocessableEventError(string(msg.Payload), result.Err)
		case workflow.ReasonCancelled:
			// Redeliver after the service comes back.
			return nil, result.Err
		default:
			// A failure notification went out already. Acknowledge so the
			// order is not retried into duplicate notifications.
			return nil, nil
		}
	}
}
