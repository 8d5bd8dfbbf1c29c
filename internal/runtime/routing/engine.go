// Package routing decides where a transformed order goes next.
package routing

import (
	"strings"

	"github.com/fiberline/orderflow/internal/runtime/order"
	"github.com/fiberline/orderflow/internal/runtime/stock"
)

// RoutedMessage wraps an order with the routing metadata downstream filters
// match on. It exists between the routing decision and the publish call and
// is not retained afterwards.
type RoutedMessage struct {
	Order *order.Order

	// CorrelationID is the order ID verbatim, stable across retries, so all
	// downstream consumers can join (and deduplicate) on it.
	CorrelationID string

	// Instock is true when the stock check reported InStock or Limited.
	// Limited still routes to fulfillment; partial delivery is a downstream
	// concern.
	Instock bool

	// RequiresTechnician marks orders whose product type needs on-site
	// installation so technician scheduling receives a copy.
	RequiresTechnician bool
}

// Engine makes the routing decision. It is a pure function of its inputs
// plus a static technician predicate table, so it is safe to share across
// concurrent orchestrations.
type Engine struct {
	technicianTypes map[string]struct{}
}

// NewEngine builds an engine with the given technician-required product
// types. Matching is case-insensitive; an empty table means no order ever
// routes to technician scheduling.
func NewEngine(technicianProductTypes []string) *Engine {
	table := make(map[string]struct{}, len(technicianProductTypes))
	for _, t := range technicianProductTypes {
		table[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return &Engine{technicianTypes: table}
}

// Route produces the routed message for an order given its stock result.
// It never fails: both inputs are already validated by earlier stages.
func (e *Engine) Route(o *order.Order, result stock.Result) RoutedMessage {
	return RoutedMessage{
		Order:              o,
		CorrelationID:      o.OrderID,
		Instock:            result.InStock(),
		RequiresTechnician: e.RequiresTechnician(o.Product.Type),
	}
}

// RequiresTechnician reports whether the product type is in the
// installation table.
func (e *Engine) RequiresTechnician(productType string) bool {
	_, ok := e.technicianTypes[strings.ToLower(strings.TrimSpace(productType))]
	return ok
}
