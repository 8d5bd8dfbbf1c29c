package runtime

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"

	configpkg "github.com/fiberline/orderflow/internal/runtime/config"
	loggingpkg "github.com/fiberline/orderflow/internal/runtime/logging"
	"github.com/fiberline/orderflow/internal/runtime/publish"
	"github.com/fiberline/orderflow/internal/runtime/routing"
	"github.com/fiberline/orderflow/internal/runtime/stock"
	"github.com/fiberline/orderflow/internal/runtime/workflow"
)

func newTestSlogLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestLogger() loggingpkg.ServiceLogger {
	return loggingpkg.NewSlogServiceLogger(newTestSlogLogger())
}

type publishedMessage struct {
	topic string
	msg   *message.Message
}

type testPublisher struct {
	mu        sync.Mutex
	published []publishedMessage
	err       error
}

func (p *testPublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	for _, msg := range messages {
		p.published = append(p.published, publishedMessage{topic: topic, msg: msg})
	}
	return nil
}

func (p *testPublisher) Close() error { return nil }

func (p *testPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]string, len(p.published))
	for i, entry := range p.published {
		topics[i] = entry.topic
	}
	return topics
}

func (p *testPublisher) Messages() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	clone := make([]publishedMessage, len(p.published))
	copy(clone, p.published)
	return clone
}

type testSubscriber struct {
	err error
}

func (s *testSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (s *testSubscriber) Close() error { return nil }

// stockQuerierFunc adapts a function to the workflow.StockQuerier interface.
type stockQuerierFunc func(ctx context.Context, model string) (stock.Result, error)

func (f stockQuerierFunc) Query(ctx context.Context, model string) (stock.Result, error) {
	return f(ctx, model)
}

func alwaysInStock(ctx context.Context, model string) (stock.Result, error) {
	return stock.Result{Model: model, Quantity: 5, Status: stock.StatusInStock}, nil
}

func newWorkflowWithQuerier(t *testing.T, svc *Service, querier workflow.StockQuerier) *workflow.Workflow {
	t.Helper()
	return workflow.New(
		querier,
		svc.orderPublisher,
		svc.engine,
		svc.Logger,
		workflow.RetryPolicy{MaxAttempts: 2, InitialInterval: 1},
		workflow.Hooks{},
	)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	log := newTestLogger()
	wmLogger := loggingpkg.NewWatermillAdapter(log)
	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		t.Fatalf("router init failed: %v", err)
	}

	pub := &testPublisher{}
	conf := &configpkg.Config{}
	orderPublisher, err := publish.NewPublisher(pub, conf.GetRouterOrdersTopic(), conf.GetCustomerOrdersTopic(), 0)
	if err != nil {
		t.Fatalf("publisher init failed: %v", err)
	}

	engine := routing.NewEngine(nil)
	wf := workflow.New(
		stockQuerierFunc(alwaysInStock),
		orderPublisher,
		engine,
		log,
		workflow.RetryPolicy{MaxAttempts: 2, InitialInterval: 1},
		workflow.Hooks{},
	)

	return &Service{
		Conf:           conf,
		Logger:         log,
		router:         router,
		publisher:      pub,
		subscriber:     &testSubscriber{},
		orderPublisher: orderPublisher,
		engine:         engine,
		workflow:       wf,
	}
}
