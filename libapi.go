package orderflow

import (
	runtimepkg "github.com/fiberline/orderflow/internal/runtime"
	configpkg "github.com/fiberline/orderflow/internal/runtime/config"
	errspkg "github.com/fiberline/orderflow/internal/runtime/errors"
	filterpkg "github.com/fiberline/orderflow/internal/runtime/filter"
	handlerpkg "github.com/fiberline/orderflow/internal/runtime/handlers"
	idspkg "github.com/fiberline/orderflow/internal/runtime/ids"
	jsoncodec "github.com/fiberline/orderflow/internal/runtime/jsoncodec"
	loggingpkg "github.com/fiberline/orderflow/internal/runtime/logging"
	metadatapkg "github.com/fiberline/orderflow/internal/runtime/metadata"
	orderpkg "github.com/fiberline/orderflow/internal/runtime/order"
	publishpkg "github.com/fiberline/orderflow/internal/runtime/publish"
	routingpkg "github.com/fiberline/orderflow/internal/runtime/routing"
	stockpkg "github.com/fiberline/orderflow/internal/runtime/stock"
	transportpkg "github.com/fiberline/orderflow/internal/runtime/transport"
	workflowpkg "github.com/fiberline/orderflow/internal/runtime/workflow"
	newtransport "github.com/fiberline/orderflow/transport"
)

type (
	Config              = configpkg.Config
	Service             = runtimepkg.Service
	ServiceDependencies = runtimepkg.ServiceDependencies
	Transport           = transportpkg.Transport
	TransportFactory    = transportpkg.Factory

	MessageHandlerRegistration            = runtimepkg.MessageHandlerRegistration
	JSONHandlerRegistration[T any, O any] = handlerpkg.JSONHandlerRegistration[T, O]
	JSONMessageContext[T any]             = handlerpkg.JSONMessageContext[T]
	JSONMessageOutput[T any]              = handlerpkg.JSONMessageOutput[T]
	JSONMessageHandler[T any, O any]      = handlerpkg.JSONMessageHandler[T, O]
	MessageContextBase                    = handlerpkg.MessageContextBase

	MiddlewareBuilder      = runtimepkg.MiddlewareBuilder
	MiddlewareRegistration = runtimepkg.MiddlewareRegistration
	RetryMiddlewareConfig  = runtimepkg.RetryMiddlewareConfig

	Producer = runtimepkg.Producer

	Metadata = metadatapkg.Metadata

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger

	UnprocessableEventError = runtimepkg.UnprocessableEventError

	HandlerInfo  = runtimepkg.HandlerInfo
	HandlerStats = runtimepkg.HandlerStats

	// Order domain model
	Order           = orderpkg.Order
	Customer        = orderpkg.Customer
	Product         = orderpkg.Product
	Delivery        = orderpkg.Delivery
	Payment         = orderpkg.Payment
	ContractDetails = orderpkg.ContractDetails
	Address         = orderpkg.Address
	TransformError  = orderpkg.TransformError

	// Stock lookups
	StockResult  = stockpkg.Result
	StockStatus  = stockpkg.Status
	StockClient  = stockpkg.Client
	StockError   = stockpkg.Error
	StockQuerier = workflowpkg.StockQuerier

	// Routing decisions
	RoutingEngine = routingpkg.Engine
	RoutedMessage = routingpkg.RoutedMessage

	// Publishing
	Envelope       = publishpkg.Envelope
	Notification   = publishpkg.Notification
	OrderPublisher = publishpkg.Publisher
	PublishError   = publishpkg.Error

	// Orchestration
	Workflow       = workflowpkg.Workflow
	WorkflowResult = workflowpkg.Result
	WorkflowState  = workflowpkg.State
	FailureReason  = workflowpkg.FailureReason
	RetryPolicy    = workflowpkg.RetryPolicy
	OrderContext   = workflowpkg.OrderContext
	Hooks          = workflowpkg.Hooks

	// Subscription filters
	FilterPredicate = filterpkg.Predicate
	Subscription    = filterpkg.Subscription

	// Error classification
	ErrorClassifier = runtimepkg.ErrorClassifier
	ErrorCategory   = runtimepkg.ErrorCategory

	// Transport capabilities
	Capabilities = transportpkg.Capabilities

	// Modular transport types
	TransportBuilder      = newtransport.Builder
	TransportConfig       = newtransport.Config
	TransportRegistry     = newtransport.Registry
	TransportCapabilities = newtransport.Capabilities
	TransportDelayedPub   = newtransport.DelayedPublisher
)

var (
	NewService     = runtimepkg.NewService
	ValidateConfig = configpkg.ValidateConfig
	LoadConfig     = configpkg.Load
	ConfigFromEnv  = configpkg.FromEnv

	RegisterMessageHandler = runtimepkg.RegisterMessageHandler
	RegisterSubscription   = runtimepkg.RegisterSubscription

	DefaultMiddlewares      = runtimepkg.DefaultMiddlewares
	CorrelationIDMiddleware = runtimepkg.CorrelationIDMiddleware
	LogMessagesMiddleware   = runtimepkg.LogMessagesMiddleware
	TracerMiddleware        = runtimepkg.TracerMiddleware
	MetricsMiddleware       = runtimepkg.MetricsMiddleware
	RetryMiddleware         = runtimepkg.RetryMiddleware
	PoisonQueueMiddleware   = runtimepkg.PoisonQueueMiddleware
	RecovererMiddleware     = runtimepkg.RecovererMiddleware

	// Order lifecycle hooks
	LoggingHooks = workflowpkg.LoggingHooks
	MetricsHooks = workflowpkg.MetricsHooks

	// Order pipeline building blocks, for embedding outside the Service
	TransformOrder    = orderpkg.Transform
	NewStockClient    = stockpkg.NewClient
	NewRoutingEngine  = routingpkg.NewEngine
	NewOrderPublisher = publishpkg.NewPublisher
	NewWorkflow       = workflowpkg.New

	// Subscription filter constructors
	MatchAll                 = filterpkg.MatchAll
	InstockTrue              = filterpkg.InstockTrue
	InstockFalse             = filterpkg.InstockFalse
	TechnicianRequired       = filterpkg.RequiresTechnician
	FilterAnd                = filterpkg.And
	FilterOr                 = filterpkg.Or
	FilterNot                = filterpkg.Not
	AttributeEquals          = filterpkg.AttributeEquals
	StockSubscription        = filterpkg.StockSubscription
	RouterSubscription       = filterpkg.RouterSubscription
	TechScheduleSubscription = filterpkg.TechScheduleSubscription

	// Transport capabilities
	GetCapabilities = transportpkg.GetCapabilities

	// Modular transport registry. Import individual transports via:
	// _ "github.com/fiberline/orderflow/transport/kafka"
	DefaultTransportRegistry = newtransport.DefaultRegistry
	RegisterTransport        = newtransport.Register
	BuildTransport           = newtransport.Build

	Marshal       = jsoncodec.Marshal
	MarshalIndent = jsoncodec.MarshalIndent
	Unmarshal     = jsoncodec.Unmarshal
	Encode        = jsoncodec.Encode
	Decode        = jsoncodec.Decode

	ErrServiceRequired             = errspkg.ErrServiceRequired
	ErrHandlerRequired             = errspkg.ErrHandlerRequired
	ErrConsumeTopicRequired        = errspkg.ErrConsumeTopicRequired
	ErrHandlerNameRequired         = errspkg.ErrHandlerNameRequired
	ErrConsumeMessageTypeRequired  = errspkg.ErrConsumeMessageTypeRequired
	ErrConsumeMessagePointerNeeded = errspkg.ErrConsumeMessagePointerNeeded
	ErrPublisherRequired           = errspkg.ErrPublisherRequired
	ErrTopicRequired               = errspkg.ErrTopicRequired
	ErrEventPayloadRequired        = errspkg.ErrEventPayloadRequired

	NewSlogServiceLogger = loggingpkg.NewSlogServiceLogger

	NewMetadata = metadatapkg.New

	NewMessageID = idspkg.NewMessageID
)

// Metadata keys - use these constants for standard metadata fields.
const (
	MetadataKeyCorrelationID      = metadatapkg.KeyCorrelationID
	MetadataKeyInstock            = metadatapkg.KeyInstock
	MetadataKeyRequiresTechnician = metadatapkg.KeyRequiresTechnician
	MetadataKeyOrderStatus        = metadatapkg.KeyOrderStatus
	MetadataKeyFailureReason      = metadatapkg.KeyFailureReason
	MetadataKeyEventSchema        = metadatapkg.KeyEventSchema
)

// Default broker resource names.
const (
	DefaultIntakeTopic         = configpkg.DefaultIntakeTopic
	DefaultCustomerOrdersTopic = configpkg.DefaultCustomerOrdersTopic
	DefaultRouterOrdersTopic   = configpkg.DefaultRouterOrdersTopic
	DefaultPoisonQueue         = configpkg.DefaultPoisonQueue

	DefaultStockSubscription       = configpkg.DefaultStockSubscription
	DefaultRouterSubscription      = configpkg.DefaultRouterSubscription
	DefaultTechScheduleSubscription = configpkg.DefaultTechScheduleSubscription
)

// Notification statuses published on the customer-orders topic.
const (
	StatusReceived  = publishpkg.StatusReceived
	StatusCompleted = publishpkg.StatusCompleted
	StatusFailed    = publishpkg.StatusFailed
)

// Stock availability statuses.
const (
	StockInStock    = stockpkg.StatusInStock
	StockOutOfStock = stockpkg.StatusOutOfStock
	StockLimited    = stockpkg.StatusLimited
)

// Terminal failure reasons surfaced in failure notifications.
const (
	ReasonBadInput         = workflowpkg.ReasonBadInput
	ReasonStockRejected    = workflowpkg.ReasonStockRejected
	ReasonPublishRejected  = workflowpkg.ReasonPublishRejected
	ReasonRetriesExhausted = workflowpkg.ReasonRetriesExhausted
	ReasonCancelled        = workflowpkg.ReasonCancelled
)

// Error category constants for ErrorClassifier.
const (
	ErrorCategoryNone       = runtimepkg.ErrorCategoryNone
	ErrorCategoryValidation = runtimepkg.ErrorCategoryValidation
	ErrorCategoryTransport  = runtimepkg.ErrorCategoryTransport
	ErrorCategoryDownstream = runtimepkg.ErrorCategoryDownstream
	ErrorCategoryOther      = runtimepkg.ErrorCategoryOther
)

func RegisterJSONHandler[T any, O any](svc *Service, cfg JSONHandlerRegistration[T, O]) error {
	return runtimepkg.RegisterJSONHandler(svc, cfg)
}
