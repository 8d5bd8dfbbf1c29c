package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"

	errspkg "github.com/fiberline/orderflow/internal/runtime/errors"
	"github.com/fiberline/orderflow/internal/runtime/filter"
	handlerpkg "github.com/fiberline/orderflow/internal/runtime/handlers"
	metadatapkg "github.com/fiberline/orderflow/internal/runtime/metadata"
)

func noopHandler(msg *message.Message) ([]*message.Message, error) {
	return nil, nil
}

func TestRegisterMessageHandlerRequiresService(t *testing.T) {
	err := RegisterMessageHandler(nil, MessageHandlerRegistration{
		Name:         "h",
		ConsumeTopic: "in",
		Handler:      noopHandler,
	})
	if !errors.Is(err, errspkg.ErrServiceRequired) {
		t.Fatalf("expected ErrServiceRequired, got %v", err)
	}
}

func TestRegisterMessageHandlerValidation(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name string
		cfg  MessageHandlerRegistration
		want error
	}{
		{
			name: "missing handler",
			cfg:  MessageHandlerRegistration{Name: "h", ConsumeTopic: "in"},
			want: errspkg.ErrHandlerRequired,
		},
		{
			name: "missing consume topic",
			cfg:  MessageHandlerRegistration{Name: "h", Handler: noopHandler},
			want: errspkg.ErrConsumeTopicRequired,
		},
		{
			name: "missing name",
			cfg:  MessageHandlerRegistration{ConsumeTopic: "in", Handler: noopHandler},
			want: errspkg.ErrHandlerNameRequired,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := RegisterMessageHandler(svc, tc.cfg); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegisterMessageHandlerRecordsInfo(t *testing.T) {
	svc := newTestService(t)

	err := RegisterMessageHandler(svc, MessageHandlerRegistration{
		Name:         "order-router",
		ConsumeTopic: "topic-order-intake",
		PublishTopic: "topic-router-orders",
		Handler:      noopHandler,
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	handlers := svc.Handlers()
	if len(handlers) != 1 {
		t.Fatalf("expected one handler, got %d", len(handlers))
	}
	info := handlers[0]
	if info.Name != "order-router" || info.ConsumeQueue != "topic-order-intake" || info.PublishQueue != "topic-router-orders" {
		t.Fatalf("unexpected handler info: %+v", info)
	}
	if info.Stats == nil {
		t.Fatal("handler stats not initialised")
	}
}

func TestRegisterSubscriptionUsesPredicate(t *testing.T) {
	svc := newTestService(t)

	sub := filter.StockSubscription("sub-order-stock", "topic-router-orders")
	if err := RegisterSubscription(svc, sub, noopHandler); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	handlers := svc.Handlers()
	if len(handlers) != 1 {
		t.Fatalf("expected one handler, got %d", len(handlers))
	}
	if handlers[0].Name != "sub-order-stock" || handlers[0].ConsumeQueue != "topic-router-orders" {
		t.Fatalf("unexpected handler info: %+v", handlers[0])
	}
}

func TestRegisterSubscriptionRequiresService(t *testing.T) {
	sub := filter.RouterSubscription("sub-order-router", "topic-router-orders")
	if err := RegisterSubscription(nil, sub, noopHandler); !errors.Is(err, errspkg.ErrServiceRequired) {
		t.Fatal("expected ErrServiceRequired")
	}
}

type intakeEvent struct {
	OrderID string `json:"orderId"`
}

type routedEvent struct {
	OrderID string `json:"orderId"`
}

func TestRegisterJSONHandler(t *testing.T) {
	svc := newTestService(t)

	err := RegisterJSONHandler(svc, handlerpkg.JSONHandlerRegistration[*intakeEvent, *routedEvent]{
		Name:         "intake-json",
		ConsumeTopic: "topic-order-intake",
		PublishTopic: "topic-router-orders",
		Handler: func(ctx context.Context, event handlerpkg.JSONMessageContext[*intakeEvent]) ([]handlerpkg.JSONMessageOutput[*routedEvent], error) {
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if len(svc.Handlers()) != 1 {
		t.Fatal("handler was not recorded")
	}
}

func TestRegisterJSONHandlerRequiresService(t *testing.T) {
	err := RegisterJSONHandler(nil, handlerpkg.JSONHandlerRegistration[*intakeEvent, *routedEvent]{
		Name:         "intake-json",
		ConsumeTopic: "topic-order-intake",
	})
	if !errors.Is(err, errspkg.ErrServiceRequired) {
		t.Fatal("expected ErrServiceRequired")
	}
}

func TestWrapHandlerWithStatsCountsFailures(t *testing.T) {
	stats := newHandlerStats("h", "in", "out")
	boom := errors.New("boom")
	calls := 0

	wrapped := wrapHandlerWithStats(func(msg *message.Message) ([]*message.Message, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return nil, nil
	}, stats, nil)

	msg := message.NewMessage("1", []byte("{}"))
	msg.Metadata = metadatapkg.ToWatermill(metadatapkg.New(metadatapkg.KeyCorrelationID, "ORD-1"))

	if _, err := wrapped(msg); !errors.Is(err, boom) {
		t.Fatalf("expected the handler error to pass through, got %v", err)
	}
	if _, err := wrapped(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.MessagesProcessed != 2 || stats.MessagesFailed != 1 {
		t.Fatalf("unexpected stats: processed=%d failed=%d", stats.MessagesProcessed, stats.MessagesFailed)
	}
}
