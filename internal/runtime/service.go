package runtime

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/plugin"

	configpkg "github.com/fiberline/orderflow/internal/runtime/config"
	loggingpkg "github.com/fiberline/orderflow/internal/runtime/logging"
	"github.com/fiberline/orderflow/internal/runtime/publish"
	"github.com/fiberline/orderflow/internal/runtime/routing"
	"github.com/fiberline/orderflow/internal/runtime/stock"
	transportpkg "github.com/fiberline/orderflow/internal/runtime/transport"
	"github.com/fiberline/orderflow/internal/runtime/workflow"
)

var routerRun = func(router *message.Router, ctx context.Context) error {
	return router.Run(ctx)
}

// ServiceDependencies holds the optional collaborators that the Service can
// use. Leave fields nil to use the config-driven defaults.
type ServiceDependencies struct {
	// StockQuerier overrides the stock client built from config. Tests and
	// deployments with a non-HTTP stock source inject their own here.
	StockQuerier workflow.StockQuerier

	// Hooks observe order lifecycle events.
	Hooks workflow.Hooks

	Middlewares               []MiddlewareRegistration // Appended after the default middleware chain.
	DisableDefaultMiddlewares bool                     // Skips registering the default middleware chain when true.
	TransportFactory          transportpkg.Factory
	ErrorClassifier           ErrorClassifier
}

// Service wires a Watermill router, publisher, subscriber, and middleware
// chain around the order orchestration pipeline.
type Service struct {
	Conf   *configpkg.Config
	Logger loggingpkg.ServiceLogger

	publisher  message.Publisher
	subscriber message.Subscriber
	router     *message.Router

	orderPublisher *publish.Publisher
	engine         *routing.Engine
	workflow       *workflow.Workflow

	handlers   []*HandlerInfo
	handlersMu sync.RWMutex

	httpServers   map[int]*http.ServeMux
	httpServersMu sync.Mutex

	errorClassifier ErrorClassifier
}

// NewService constructs a Service for the supplied configuration. Register
// handlers on the returned Service before calling Start.
func NewService(conf *configpkg.Config, log loggingpkg.ServiceLogger, ctx context.Context, deps ServiceDependencies) *Service {
	wmLogger := loggingpkg.NewWatermillAdapter(log)
	log.Info("Creating order routing service",
		loggingpkg.LogFields{
			"pubsub_system": conf.PubSubSystem,
			"config":        conf,
		})

	s := &Service{
		Conf:   conf,
		Logger: log,
	}

	if deps.ErrorClassifier != nil {
		s.errorClassifier = deps.ErrorClassifier
	} else {
		s.errorClassifier = defaultErrorClassifier
	}

	factory := deps.TransportFactory
	if factory == nil {
		factory = transportpkg.DefaultFactory()
	}
	transport, err := factory.Build(ctx, conf, wmLogger)
	if err != nil {
		panic(err)
	}

	s.publisher = transport.Publisher
	s.subscriber = transport.Subscriber

	orderPublisher, err := publish.NewPublisher(
		s.publisher,
		conf.GetRouterOrdersTopic(),
		conf.GetCustomerOrdersTopic(),
		conf.GetEnvelopeSizeLimit(),
	)
	if err != nil {
		panic(err)
	}
	s.orderPublisher = orderPublisher

	s.engine = routing.NewEngine(conf.TechnicianProductTypes)

	querier := deps.StockQuerier
	if querier == nil {
		querier = stock.NewClient(conf.StockAPIURL, conf.StockAPIKey, conf.StockTimeout)
	}

	s.workflow = workflow.New(
		querier,
		orderPublisher,
		s.engine,
		log,
		workflow.RetryPolicy{
			MaxAttempts:     conf.RetryMaxAttempts,
			InitialInterval: conf.RetryInitialInterval,
		},
		deps.Hooks,
	)

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		panic(err)
	}

	s.router = router
	s.router.AddPlugin(plugin.SignalsHandler)

	s.registerConfiguredMiddlewares(deps)

	return s
}

// Start runs the underlying Watermill router until the provided context is
// cancelled.
func (s *Service) Start(ctx context.Context) error {
	s.startHTTPServers()
	return routerRun(s.router, ctx)
}

// Workflow returns the order orchestration pipeline so callers can process
// a document directly, without going through the intake topic.
func (s *Service) Workflow() *workflow.Workflow {
	return s.workflow
}

// RoutingEngine returns the routing decision engine.
func (s *Service) RoutingEngine() *routing.Engine {
	return s.engine
}

// OrderPublisher returns the publisher for routed orders and notifications.
func (s *Service) OrderPublisher() *publish.Publisher {
	return s.orderPublisher
}

// Handlers returns a snapshot of the registered handlers with their stats.
func (s *Service) Handlers() []*HandlerInfo {
	s.handlersMu.RLock()
	defer s.handlersMu.RUnlock()
	snapshot := make([]*HandlerInfo, len(s.handlers))
	copy(snapshot, s.handlers)
	return snapshot
}

func (s *Service) registerConfiguredMiddlewares(deps ServiceDependencies) {
	var defaults []MiddlewareRegistration
	if !deps.DisableDefaultMiddlewares {
		defaults = DefaultMiddlewares()
	}
	registrations := make([]MiddlewareRegistration, 0, len(defaults)+len(deps.Middlewares))
	registrations = append(registrations, defaults...)
	registrations = append(registrations, deps.Middlewares...)

	for _, reg := range registrations {
		if err := s.RegisterMiddleware(reg); err != nil {
			name := reg.Name
			if name == "" {
				name = "anonymous_middleware"
			}
			panic(fmt.Sprintf("failed to register middleware %s: %v", name, err))
		}
	}
}

func (s *Service) getErrorClassifier() ErrorClassifier {
	if s.errorClassifier == nil {
		return defaultErrorClassifier
	}
	return s.errorClassifier
}

// RegisterHTTPHandler mounts an HTTP handler on the server for the given
// port. Servers are started together with the router.
func (s *Service) RegisterHTTPHandler(port int, pattern string, handler http.Handler) {
	s.httpServersMu.Lock()
	defer s.httpServersMu.Unlock()

	if s.httpServers == nil {
		s.httpServers = make(map[int]*http.ServeMux)
	}

	mux, ok := s.httpServers[port]
	if !ok {
		mux = http.NewServeMux()
		s.httpServers[port] = mux
	}

	mux.Handle(pattern, handler)
}

func (s *Service) startHTTPServers() {
	s.httpServersMu.Lock()
	defer s.httpServersMu.Unlock()

	for port, mux := range s.httpServers {
		addr := fmt.Sprintf(":%d", port)
		s.Logger.Info("Starting HTTP server", loggingpkg.LogFields{"address": addr})
		go func(addr string, handler http.Handler) {
			if err := http.ListenAndServe(addr, handler); err != nil {
				s.Logger.Error("Failed to start HTTP server", err, loggingpkg.LogFields{"address": addr})
			}
		}(addr, mux)
	}
}
