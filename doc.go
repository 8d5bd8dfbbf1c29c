// Package orderflow routes telecom hardware orders from a raw intake document
// to attributed broker messages. It is a layer on top of Watermill: the
// Service reads the target transport (Kafka, RabbitMQ, AWS SNS/SQS, NATS,
// JetStream, or Go channels) from Config, bootstraps the router, and runs the
// orchestration workflow for every document that arrives on the intake topic.
//
// Each order is transformed into the canonical order model, checked against
// the stock-management API, and routed: the routing decision is published as
// an envelope on the router-orders topic with instock and requires_technician
// attributes, while the customer-orders topic carries received, completed,
// and failed status notifications keyed by the order ID.
//
// # Subscriptions
//
// Downstream consumers attach attribute-filtered subscriptions to the
// router-orders topic. The three standard rules ship as constructors:
//   - StockSubscription: instock=true, fulfilment from the warehouse
//   - RouterSubscription: instock=false, manual handling
//   - TechScheduleSubscription: requires_technician=true, installation booking
//
// Brokers with server-side filtering (SNS, RabbitMQ headers) can enforce
// these natively; everywhere else RegisterSubscription applies the predicate
// client-side and acknowledges non-matching messages untouched.
//
// # Transports
//
// Six transports are supported out of the box:
//   - channel: In-memory Go channels for testing
//   - kafka: High-throughput streaming with consumer groups
//   - rabbitmq: AMQP-based durable queues
//   - aws: AWS SNS/SQS with LocalStack support
//   - nats: High-performance messaging
//   - jetstream: NATS JetStream with durable consumers and delayed redelivery
//
// # Middleware
//
// The default middleware chain includes correlation ID injection, structured
// logging, OpenTelemetry tracing, Prometheus metrics, retry with exponential
// backoff, poison queue forwarding for unprocessable documents, and panic
// recovery. Custom middleware can be added via ServiceDependencies.Middlewares.
//
// # Hooks
//
// ServiceDependencies.Hooks observes each order's lifecycle: OnOrderStart,
// OnOrderCompleted, and OnOrderFailed callbacks support custom logging,
// metrics, and alerting without touching the workflow itself. Bring your own
// StockQuerier, ErrorClassifier, or an entire TransportFactory to plug in
// custom infrastructure.
package orderflow
