package ports

import "context"

// EventKind classifies a notification event.
type EventKind string

const (
	EventNewOrder       EventKind = "NEW_ORDER"
	EventOrderReady     EventKind = "ORDER_READY"
	EventOrderDelivered EventKind = "ORDER_DELIVERED"
	EventOrderCancelled EventKind = "ORDER_CANCELLED"
	EventOrderModified  EventKind = "ORDER_MODIFIED"
)

// Notification is the payload handed to sinks. WaiterID and CustomerID are
// targeting hints for the fan-out, empty when unassigned; the remaining
// fields are informational and formatted per channel by each sink.
type Notification struct {
	Kind         EventKind
	OrderID      string
	Status       string
	TableNumber  int
	CustomerID   string
	CustomerName string
	WaiterID     string
	Message      string
}

// NotificationSink delivers a single notification over one channel (console,
// email, SMS, push). A sink failure must not affect other sinks or the
// operation that triggered the event.
type NotificationSink interface {
	// Send delivers the notification to the given recipient reference.
	Send(ctx context.Context, recipient string, notification Notification) error

	// Channel names the delivery channel for logging.
	Channel() string
}

// Notifier fans lifecycle events out to the interested parties. Delivery is
// best-effort: sink errors are logged and swallowed, never returned to the
// caller.
type Notifier interface {
	// NotifyNewOrder tells the kitchen a new order exists.
	NotifyNewOrder(ctx context.Context, notification Notification)

	// NotifyOrderReady tells the assigned waiter (or, when unassigned, all
	// waiters) and the customer that the order is ready to serve.
	NotifyOrderReady(ctx context.Context, notification Notification)

	// NotifyOrderCancelled tells the kitchen to stop work on the order.
	NotifyOrderCancelled(ctx context.Context, notification Notification)

	// NotifyOrderModified tells the kitchen the order's lines changed.
	NotifyOrderModified(ctx context.Context, notification Notification)
}
