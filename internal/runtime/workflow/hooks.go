package workflow

import (
	"time"

	loggingpkg "github.com/fiberline/orderflow/internal/runtime/logging"
)

// OrderContext provides information about an orchestration run to hooks.
type OrderContext struct {
	// OrderID is the order identifier, empty when transformation failed
	// before an ID could be extracted.
	OrderID string
	// ProductModel is the ordered product model, when known.
	ProductModel string
	// StartedAt is when the run started.
	StartedAt time.Time
	// Duration is how long the run took (only set for completed and failed).
	Duration time.Duration
}

// Hooks defines callbacks for orchestration lifecycle events.
// All hooks are optional - nil hooks are simply not called.
type Hooks struct {
	// OnOrderStart is called when a run begins, before transformation.
	OnOrderStart func(ctx OrderContext)

	// OnOrderCompleted is called when a run reaches the completed state.
	OnOrderCompleted func(ctx OrderContext)

	// OnOrderFailed is called when a run reaches the failed state.
	// The terminal error is passed as the second argument.
	OnOrderFailed func(ctx OrderContext, err error)
}

// Merge combines two Hooks, creating a new Hooks that calls both.
// The hooks from 'other' are called after the hooks from 'h'.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnOrderStart:     chainHooks(h.OnOrderStart, other.OnOrderStart),
		OnOrderCompleted: chainHooks(h.OnOrderCompleted, other.OnOrderCompleted),
		OnOrderFailed:    chainErrorHooks(h.OnOrderFailed, other.OnOrderFailed),
	}
}

func (h Hooks) callStart(ctx OrderContext) {
	if h.OnOrderStart != nil {
		h.OnOrderStart(ctx)
	}
}

func (h Hooks) callCompleted(ctx OrderContext) {
	if h.OnOrderCompleted != nil {
		h.OnOrderCompleted(ctx)
	}
}

func (h Hooks) callFailed(ctx OrderContext, err error) {
	if h.OnOrderFailed != nil {
		h.OnOrderFailed(ctx, err)
	}
}

func chainHooks(a, b func(OrderContext)) func(OrderContext) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx OrderContext) {
		a(ctx)
		b(ctx)
	}
}

func chainErrorHooks(a, b func(OrderContext, error)) func(OrderContext, error) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx OrderContext, err error) {
		a(ctx, err)
		b(ctx, err)
	}
}

// LoggingHooks returns pre-built hooks that log orchestration lifecycle
// events.
func LoggingHooks(logger loggingpkg.ServiceLogger) Hooks {
	return Hooks{
		OnOrderStart: func(ctx OrderContext) {
			logger.Info("Order processing started", loggingpkg.LogFields{
				"correlation_id": ctx.OrderID,
			})
		},
		OnOrderCompleted: func(ctx OrderContext) {
			logger.Info("Order processing completed", loggingpkg.LogFields{
				"correlation_id": ctx.OrderID,
				"model":          ctx.ProductModel,
				"duration_ms":    ctx.Duration.Milliseconds(),
			})
		},
		OnOrderFailed: func(ctx OrderContext, err error) {
			logger.Error("Order processing failed", err, loggingpkg.LogFields{
				"correlation_id": ctx.OrderID,
				"model":          ctx.ProductModel,
				"duration_ms":    ctx.Duration.Milliseconds(),
			})
		},
	}
}

// MetricsHooks returns pre-built hooks that record run outcomes.
func MetricsHooks(onStart, onCompleted, onFailed func(orderID string)) Hooks {
	return Hooks{
		OnOrderStart: func(ctx OrderContext) {
			if onStart != nil {
				onStart(ctx.OrderID)
			}
		},
		OnOrderCompleted: func(ctx OrderContext) {
			if onCompleted != nil {
				onCompleted(ctx.OrderID)
			}
		},
		OnOrderFailed: func(ctx OrderContext, err error) {
			if onFailed != nil {
				onFailed(ctx.OrderID)
			}
		},
	}
}
