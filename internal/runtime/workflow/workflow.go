// Package workflow sequences one order through transform, stock check,
// routing, and publish, with bounded retries around the external calls.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	loggingpkg "github.com/fiberline/orderflow/internal/runtime/logging"
	"github.com/fiberline/orderflow/internal/runtime/jsoncodec"
	"github.com/fiberline/orderflow/internal/runtime/order"
	"github.com/fiberline/orderflow/internal/runtime/publish"
	"github.com/fiberline/orderflow/internal/runtime/routing"
	"github.com/fiberline/orderflow/internal/runtime/stock"
)

// State identifies a position in the orchestration lifecycle.
type State string

const (
	StateReceived     State = "received"
	StateTransformed  State = "transformed"
	StateStockChecked State = "stock_checked"
	StateRouted       State = "routed"
	StatePublished    State = "published"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

// FailureReason is the terminal reason code surfaced to the submitter. It
// distinguishes bad input from temporary unavailability that was already
// retried.
type FailureReason string

const (
	ReasonNone             FailureReason = ""
	ReasonBadInput         FailureReason = "bad_input"
	ReasonStockRejected    FailureReason = "stock_check_rejected"
	ReasonPublishRejected  FailureReason = "publish_rejected"
	ReasonRetriesExhausted FailureReason = "retries_exhausted"
	ReasonCancelled        FailureReason = "cancelled"
)

// StockQuerier is the stock-check dependency.
type StockQuerier interface {
	Query(ctx context.Context, model string) (stock.Result, error)
}

// Emitter is the publish dependency.
type Emitter interface {
	PublishRouted(ctx context.Context, routed routing.RoutedMessage) error
	PublishNotification(ctx context.Context, notification publish.Notification) error
}

// RetryPolicy bounds retries of the transient-failure-prone steps.
// Zero values fall back to 3 attempts starting at 500ms, doubling each time.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = 500 * time.Millisecond
	}
	return p
}

// Result is the terminal outcome of one orchestration run.
type Result struct {
	State         State
	FailureReason FailureReason
	Err           error

	Order  *order.Order
	Routed *routing.RoutedMessage

	// Trace records every state entered, in order. Terminal states are
	// never left again.
	Trace []State
}

// Failed reports whether the run ended in the failure state.
func (r Result) Failed() bool { return r.State == StateFailed }

// Workflow orchestrates one order submission at a time. Instances are
// stateless between runs and safe for concurrent use; every Run call is an
// isolated unit of work.
type Workflow struct {
	stock   StockQuerier
	emitter Emitter
	engine  *routing.Engine
	logger  loggingpkg.ServiceLogger
	retry   RetryPolicy
	hooks   Hooks
}

// New builds a workflow over its four collaborators.
func New(querier StockQuerier, emitter Emitter, engine *routing.Engine, logger loggingpkg.ServiceLogger, retry RetryPolicy, hooks Hooks) *Workflow {
	return &Workflow{
		stock:   querier,
		emitter: emitter,
		engine:  engine,
		logger:  logger,
		retry:   retry.withDefaults(),
		hooks:   hooks,
	}
}

type run struct {
	result Result
}

func (r *run) enter(s State) {
	r.result.State = s
	r.result.Trace = append(r.result.Trace, s)
}

func (r *run) fail(reason FailureReason, err error) Result {
	r.enter(StateFailed)
	r.result.FailureReason = reason
	r.result.Err = err
	return r.result
}

// Run processes one raw order document to a terminal state. It never
// returns a non-terminal result: the outcome is Completed or Failed with a
// reason, never silence.
func (w *Workflow) Run(ctx context.Context, rawDocument []byte) Result {
	r := &run{}
	r.enter(StateReceived)

	startedAt := time.Now()
	w.hooks.callStart(OrderContext{StartedAt: startedAt})

	// Transform. Permanent on any failure: malformed input will not become
	// valid on retry, so StockClient is never consulted.
	o, err := order.Transform(rawDocument)
	if err != nil {
		w.logger.Error("Order transform failed", err, loggingpkg.LogFields{
			"correlation_id": probeOrderID(rawDocument),
		})
		w.notify(ctx, probeOrderID(rawDocument), publish.StatusFailed, ReasonBadInput)
		result := r.fail(ReasonBadInput, err)
		w.hooks.callFailed(w.orderContext(o, startedAt), err)
		return result
	}
	r.enter(StateTransformed)
	r.result.Order = o
	w.notify(ctx, o.OrderID, publish.StatusReceived, ReasonNone)

	log := w.logger.With(loggingpkg.LogFields{"correlation_id": o.OrderID})
	log.Info("Order transformed", loggingpkg.LogFields{"model": o.Product.Model})

	// Stock check, retried on transient failures with exponential backoff.
	stockResult, err := w.checkStock(ctx, o.Product.Model)
	if err != nil {
		reason := classifyStockFailure(err)
		log.Error("Stock check failed", err, loggingpkg.LogFields{"reason": string(reason)})
		w.notify(ctx, o.OrderID, publish.StatusFailed, reason)
		result := r.fail(reason, err)
		w.hooks.callFailed(w.orderContext(o, startedAt), err)
		return result
	}
	r.enter(StateStockChecked)
	log.Info("Stock checked", loggingpkg.LogFields{
		"status":   string(stockResult.Status),
		"quantity": stockResult.Quantity,
	})

	// Routing is a pure decision and cannot fail on valid inputs.
	routed := w.engine.Route(o, stockResult)
	r.enter(StateRouted)
	r.result.Routed = &routed

	// Publish, retried on broker unavailability.
	if err := w.publishRouted(ctx, routed); err != nil {
		reason := classifyPublishFailure(err)
		log.Error("Publish failed", err, loggingpkg.LogFields{"reason": string(reason)})
		w.notify(ctx, o.OrderID, publish.StatusFailed, reason)
		result := r.fail(reason, err)
		w.hooks.callFailed(w.orderContext(o, startedAt), err)
		return result
	}
	r.enter(StatePublished)

	r.enter(StateCompleted)
	w.notify(ctx, o.OrderID, publish.StatusCompleted, ReasonNone)
	log.Info("Order completed", loggingpkg.LogFields{
		"instock":             routed.Instock,
		"requires_technician": routed.RequiresTechnician,
	})
	w.hooks.callCompleted(w.orderContext(o, startedAt))

	return r.result
}

func (w *Workflow) checkStock(ctx context.Context, model string) (stock.Result, error) {
	return backoff.Retry(ctx, func() (stock.Result, error) {
		result, err := w.stock.Query(ctx, model)
		if err != nil {
			var serr *stock.Error
			if errors.As(err, &serr) && !serr.Transient {
				return stock.Result{}, backoff.Permanent(err)
			}
			return stock.Result{}, err
		}
		return result, nil
	}, w.retryOptions()...)
}

func (w *Workflow) publishRouted(ctx context.Context, routed routing.RoutedMessage) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := w.emitter.PublishRouted(ctx, routed); err != nil {
			var perr *publish.Error
			if errors.As(err, &perr) && !perr.Transient {
				return struct{}{}, backoff.Permanent(err)
			}
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, w.retryOptions()...)
	return err
}

func (w *Workflow) retryOptions() []backoff.RetryOption {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = w.retry.InitialInterval
	expo.Multiplier = 2
	return []backoff.RetryOption{
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(w.retry.MaxAttempts)),
	}
}

// notify reports order status on the customer topic. Notification delivery
// is best effort: an unreachable notification topic must not change the
// order's own outcome.
func (w *Workflow) notify(ctx context.Context, correlationID, status string, reason FailureReason) {
	notification := publish.Notification{
		CorrelationID: correlationID,
		Status:        status,
		Reason:        string(reason),
	}
	if err := w.emitter.PublishNotification(ctx, notification); err != nil {
		w.logger.Error("Customer notification failed", err, loggingpkg.LogFields{
			"correlation_id": correlationID,
			"status":         status,
		})
	}
}

func (w *Workflow) orderContext(o *order.Order, startedAt time.Time) OrderContext {
	octx := OrderContext{StartedAt: startedAt, Duration: time.Since(startedAt)}
	if o != nil {
		octx.OrderID = o.OrderID
		octx.ProductModel = o.Product.Model
	}
	return octx
}

func classifyStockFailure(err error) FailureReason {
	var serr *stock.Error
	if errors.As(err, &serr) && !serr.Transient {
		return ReasonStockRejected
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCancelled
	}
	return ReasonRetriesExhausted
}

func classifyPublishFailure(err error) FailureReason {
	var perr *publish.Error
	if errors.As(err, &perr) && !perr.Transient {
		return ReasonPublishRejected
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCancelled
	}
	return ReasonRetriesExhausted
}

// probeOrderID makes a best-effort attempt to recover the order ID from a
// document that failed full transformation, so failure notifications can
// still be correlated when the ID itself was present.
func probeOrderID(rawDocument []byte) string {
	var probe struct {
		Order struct {
			OrderID string `json:"orderId"`
		} `json:"order"`
	}
	if err := jsoncodec.Unmarshal(rawDocument, &probe); err != nil {
		return ""
	}
	return probe.Order.OrderID
}
