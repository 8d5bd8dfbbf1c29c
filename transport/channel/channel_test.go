package channel

import (
	"context"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/fiberline/orderflow/transport"
)

type mockConfig struct{}

func (m *mockConfig) GetPubSubSystem() string       { return TransportName }
func (m *mockConfig) GetKafkaBrokers() []string     { return nil }
func (m *mockConfig) GetKafkaConsumerGroup() string { return "" }
func (m *mockConfig) GetRabbitMQURL() string        { return "" }
func (m *mockConfig) GetNATSURL() string            { return "" }
func (m *mockConfig) GetAWSRegion() string          { return "" }
func (m *mockConfig) GetAWSAccountID() string       { return "" }
func (m *mockConfig) GetAWSAccessKeyID() string     { return "" }
func (m *mockConfig) GetAWSSecretAccessKey() string { return "" }
func (m *mockConfig) GetAWSEndpoint() string        { return "" }

func TestRegisteredWithDefaultRegistry(t *testing.T) {
	if !transport.DefaultRegistry.Has(TransportName) {
		t.Fatal("channel transport should self-register")
	}

	caps := transport.GetCapabilities(TransportName)
	if caps.Name != "channel" {
		t.Fatalf("unexpected capabilities name %q", caps.Name)
	}
	if !caps.SupportsAck || !caps.SupportsNack {
		t.Fatal("channel transport supports ack and nack")
	}
	if caps.SupportsDelay {
		t.Fatal("channel transport has no native delay")
	}
}

func TestBuild(t *testing.T) {
	tr, err := Build(context.Background(), &mockConfig{}, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Publisher == nil || tr.Subscriber == nil {
		t.Fatal("expected publisher and subscriber")
	}
}

func TestBuildRoundTrip(t *testing.T) {
	tr, err := Build(context.Background(), &mockConfig{}, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := tr.Subscriber.Subscribe(ctx, "topic-router-orders")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sent := message.NewMessage("msg-1", []byte(`{"orderId":"ORD-1"}`))
	sent.Metadata.Set("instock", "true")
	if err := tr.Publisher.Publish("topic-router-orders", sent); err != nil {
		t.Fatalf("publish: %v", err)
	}

	received := <-messages
	if received.UUID != "msg-1" {
		t.Fatalf("unexpected message %q", received.UUID)
	}
	if received.Metadata.Get("instock") != "true" {
		t.Fatal("metadata should survive the round trip")
	}
	received.Ack()
}

func TestBuildUsesCustomFactory(t *testing.T) {
	originalFactory := Factory
	defer func() { Factory = originalFactory }()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	var called bool
	Factory = func(cfg gochannel.Config, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber) {
		called = true
		return pubSub, pubSub
	}

	tr, err := Build(context.Background(), &mockConfig{}, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("custom factory was not used")
	}
	if tr.Publisher != message.Publisher(pubSub) {
		t.Fatal("expected transport to use the factory's pubsub")
	}
}
