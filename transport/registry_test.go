package transport

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type mockConfig struct {
	pubSubSystem string
}

func (m *mockConfig) GetPubSubSystem() string       { return m.pubSubSystem }
func (m *mockConfig) GetKafkaBrokers() []string     { return nil }
func (m *mockConfig) GetKafkaConsumerGroup() string { return "" }
func (m *mockConfig) GetRabbitMQURL() string        { return "" }
func (m *mockConfig) GetNATSURL() string            { return "" }
func (m *mockConfig) GetAWSRegion() string          { return "" }
func (m *mockConfig) GetAWSAccountID() string       { return "" }
func (m *mockConfig) GetAWSAccessKeyID() string     { return "" }
func (m *mockConfig) GetAWSSecretAccessKey() string { return "" }
func (m *mockConfig) GetAWSEndpoint() string        { return "" }

type mockPublisher struct{}

func (m *mockPublisher) Publish(topic string, messages ...*message.Message) error { return nil }
func (m *mockPublisher) Close() error                                             { return nil }

type mockSubscriber struct{}

func (m *mockSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return make(chan *message.Message), nil
}
func (m *mockSubscriber) Close() error { return nil }

func mockBuilder(tr Transport, err error) Builder {
	return func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return tr, err
	}
}

func TestRegistryBuild(t *testing.T) {
	registry := NewRegistry()
	want := Transport{Publisher: &mockPublisher{}, Subscriber: &mockSubscriber{}}
	registry.Register("mock", mockBuilder(want, nil))

	got, err := registry.Build(context.Background(), &mockConfig{pubSubSystem: "mock"}, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Publisher != want.Publisher || got.Subscriber != want.Subscriber {
		t.Fatal("registry returned a different transport")
	}
}

func TestRegistryBuildUnknownTransport(t *testing.T) {
	registry := NewRegistry()
	registry.Register("known", mockBuilder(Transport{}, nil))

	_, err := registry.Build(context.Background(), &mockConfig{pubSubSystem: "mystery"}, watermill.NopLogger{})
	if err == nil {
		t.Fatal("expected error for unknown transport")
	}
	if !strings.Contains(err.Error(), "mystery") || !strings.Contains(err.Error(), "known") {
		t.Fatalf("error should name the unknown transport and list registered ones, got %v", err)
	}
}

func TestRegistryBuildNilConfig(t *testing.T) {
	registry := NewRegistry()
	if _, err := registry.Build(context.Background(), nil, watermill.NopLogger{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestRegistryBuildPropagatesBuilderError(t *testing.T) {
	registry := NewRegistry()
	builderErr := errors.New("broker unreachable")
	registry.Register("failing", mockBuilder(Transport{}, builderErr))

	_, err := registry.Build(context.Background(), &mockConfig{pubSubSystem: "failing"}, watermill.NopLogger{})
	if !errors.Is(err, builderErr) {
		t.Fatalf("expected builder error, got %v", err)
	}
}

func TestRegistryCapabilities(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterWithCapabilities("caps", mockBuilder(Transport{}, nil), Capabilities{
		Name:         "caps",
		SupportsAck:  true,
		SupportsNack: true,
	})

	caps := registry.GetCapabilities("caps")
	if !caps.SupportsReliableDelivery() {
		t.Fatal("expected reliable delivery for ack+nack transport")
	}

	unknown := registry.GetCapabilities("nope")
	if unknown.Name != "nope" || unknown.SupportsAck {
		t.Fatalf("unknown transport should report zero capabilities, got %+v", unknown)
	}
}

func TestRegistryHasAndNames(t *testing.T) {
	registry := NewRegistry()
	registry.Register("one", mockBuilder(Transport{}, nil))
	registry.Register("two", mockBuilder(Transport{}, nil))

	if !registry.Has("one") || !registry.Has("two") {
		t.Fatal("expected both transports to be registered")
	}
	if registry.Has("three") {
		t.Fatal("unexpected registration")
	}
	if len(registry.Names()) != 2 {
		t.Fatalf("unexpected names %v", registry.Names())
	}
}

func TestCapabilityHelpers(t *testing.T) {
	if !ChannelCapabilities.RequiresFilterEmulation() {
		t.Fatal("channel transport needs client-side filters")
	}
	if AWSCapabilities.RequiresFilterEmulation() {
		t.Fatal("SNS filter policies are evaluated broker side")
	}
	if KafkaCapabilities.SupportsReliableDelivery() {
		t.Fatal("kafka has no nack, delivery is not ack+nack")
	}
	if !JetStreamCapabilities.SupportsReliableDelivery() {
		t.Fatal("jetstream supports ack and nack")
	}
	if !KafkaCapabilities.RequiresDelayEmulation() {
		t.Fatal("kafka needs application-level delay")
	}
}
