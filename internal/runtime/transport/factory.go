// Package transport provides transport types for the internal runtime.
// Transport implementations live in github.com/fiberline/orderflow/transport.
package transport

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/fiberline/orderflow/internal/runtime/config"
	pubtransport "github.com/fiberline/orderflow/transport"

	// Import all transport packages to register them.
	_ "github.com/fiberline/orderflow/transport/aws"
	_ "github.com/fiberline/orderflow/transport/channel"
	_ "github.com/fiberline/orderflow/transport/jetstream"
	_ "github.com/fiberline/orderflow/transport/kafka"
	_ "github.com/fiberline/orderflow/transport/nats"
	_ "github.com/fiberline/orderflow/transport/rabbitmq"
)

// Transport combines a publisher and subscriber pair produced by a factory.
type Transport struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

// Factory abstracts how orderflow initialises message transports.
type Factory interface {
	Build(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (Transport, error)
}

// DefaultFactory returns the built-in transport factory that uses the
// modular transport registry.
func DefaultFactory() Factory {
	return defaultFactory{}
}

type defaultFactory struct{}

func (defaultFactory) Build(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (Transport, error) {
	if conf == nil {
		return Transport{}, fmt.Errorf("config is required")
	}

	t, err := pubtransport.Build(ctx, conf, logger)
	if err != nil {
		return Transport{}, err
	}

	return Transport{
		Publisher:  t.Publisher,
		Subscriber: t.Subscriber,
	}, nil
}

// Capabilities is an alias for the modular transport Capabilities.
type Capabilities = pubtransport.Capabilities

// GetCapabilities returns the capabilities for a transport by name.
func GetCapabilities(transportName string) Capabilities {
	return pubtransport.GetCapabilities(transportName)
}
