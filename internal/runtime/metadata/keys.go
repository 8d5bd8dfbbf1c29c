package metadata

// Reserved attribute keys. Subscription filters on the broker side match on
// these, so the names are part of the wire contract and must not change.
const (
	// KeyCorrelationID carries the originating order ID so independent
	// consumers can join their processing on the same order.
	KeyCorrelationID = "correlation_id"

	// KeyInstock is "true" or "false" on router-orders messages once a stock
	// check has succeeded. It is absent when no stock check was performed.
	KeyInstock = "instock"

	// KeyRequiresTechnician is "true" when the product type needs on-site
	// installation and a copy should reach technician scheduling.
	KeyRequiresTechnician = "requires_technician"

	// KeyOrderStatus is set on customer-orders notifications
	// (received, completed, failed).
	KeyOrderStatus = "order_status"

	// KeyFailureReason distinguishes bad input from exhausted retries on
	// failure notifications.
	KeyFailureReason = "failure_reason"

	// KeyEventSchema identifies the payload type of a message.
	KeyEventSchema = "event_message_schema"
)
