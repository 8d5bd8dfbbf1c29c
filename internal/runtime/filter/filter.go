// Package filter implements attribute-based subscription filtering. Brokers
// without server-side filtering evaluate the same predicates client side, so
// a subscription behaves identically on every transport.
package filter

import (
	"github.com/ThreeDotsLabs/watermill/message"

	metadatapkg "github.com/fiberline/orderflow/internal/runtime/metadata"
)

// Predicate decides whether a message's attributes match a subscription.
// Predicates only ever inspect metadata, never the payload.
type Predicate func(md metadatapkg.Metadata) bool

// MatchAll accepts every message.
func MatchAll() Predicate {
	return func(metadatapkg.Metadata) bool { return true }
}

// InstockTrue matches messages whose instock attribute is exactly "true".
// Messages without the attribute never match.
func InstockTrue() Predicate {
	return attributeBool(metadatapkg.KeyInstock, true)
}

// InstockFalse matches messages whose instock attribute is exactly "false".
// Messages without the attribute never match.
func InstockFalse() Predicate {
	return attributeBool(metadatapkg.KeyInstock, false)
}

// RequiresTechnician matches messages flagged for technician scheduling.
func RequiresTechnician() Predicate {
	return attributeBool(metadatapkg.KeyRequiresTechnician, true)
}

// Correlation matches messages carrying the given correlation ID.
func Correlation(correlationID string) Predicate {
	return AttributeEquals(metadatapkg.KeyCorrelationID, correlationID)
}

// OrderStatus matches customer notifications with the given status.
func OrderStatus(status string) Predicate {
	return AttributeEquals(metadatapkg.KeyOrderStatus, status)
}

// AttributeEquals matches messages where the attribute is present and equals
// value exactly.
func AttributeEquals(key, value string) Predicate {
	return func(md metadatapkg.Metadata) bool {
		got, ok := md[key]
		return ok && got == value
	}
}

func attributeBool(key string, want bool) Predicate {
	return func(md metadatapkg.Metadata) bool {
		got, ok := md.Bool(key)
		return ok && got == want
	}
}

// And matches when every predicate matches. With no predicates it matches
// everything.
func And(predicates ...Predicate) Predicate {
	return func(md metadatapkg.Metadata) bool {
		for _, p := range predicates {
			if !p(md) {
				return false
			}
		}
		return true
	}
}

// Or matches when at least one predicate matches.
func Or(predicates ...Predicate) Predicate {
	return func(md metadatapkg.Metadata) bool {
		for _, p := range predicates {
			if p(md) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(md metadatapkg.Metadata) bool { return !p(md) }
}

// Subscription pairs a named filter rule with the topic it applies to.
type Subscription struct {
	Name      string
	Topic     string
	Predicate Predicate
}

// Matches reports whether a message's metadata passes the subscription rule.
func (s Subscription) Matches(md metadatapkg.Metadata) bool {
	if s.Predicate == nil {
		return true
	}
	return s.Predicate(md)
}

// StockSubscription is the fulfillment rule: router-orders messages for
// orders that can be fulfilled from stock.
func StockSubscription(name, topic string) Subscription {
	return Subscription{Name: name, Topic: topic, Predicate: InstockTrue()}
}

// RouterSubscription is the manual-handling rule: router-orders messages for
// orders that cannot be fulfilled from stock.
func RouterSubscription(name, topic string) Subscription {
	return Subscription{Name: name, Topic: topic, Predicate: InstockFalse()}
}

// TechScheduleSubscription is the technician-scheduling rule. It overlaps
// with the stock and router rules: a technician order is delivered to its
// availability queue and to scheduling.
func TechScheduleSubscription(name, topic string) Subscription {
	return Subscription{Name: name, Topic: topic, Predicate: RequiresTechnician()}
}

// Middleware returns a handler middleware that silently acknowledges
// messages whose attributes do not match the predicate. Dropping without an
// error keeps non-matching messages off retry and poison paths.
func Middleware(p Predicate) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			if !p(metadatapkg.FromWatermill(msg.Metadata)) {
				return nil, nil
			}
			return h(msg)
		}
	}
}
