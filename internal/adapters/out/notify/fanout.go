// Package notify implements the notification fan-out and its delivery
// sinks. Subscribers register per audience (kitchen, waiters, customers)
// with a swappable sink; delivery is synchronous and best-effort, so a
// failing sink is logged and never surfaces into the mutation that raised
// the event.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"cafe/internal/core/ports"
)

// Subscriber couples a recipient reference with the sink that reaches it.
// Ref is the waiter/customer identifier for targeted events, or a display
// handle for broadcast audiences like the kitchen.
type Subscriber struct {
	Ref  string
	Sink ports.NotificationSink
}

// FanOut implements ports.Notifier over registered subscribers.
//
// Targeting: NEW_ORDER and ORDER_MODIFIED go to the kitchen; ORDER_READY
// goes to the assigned waiter (all waiters when unassigned) plus the
// customer; ORDER_CANCELLED goes to everyone.
type FanOut struct {
	mu        sync.RWMutex
	kitchen   []Subscriber
	waiters   []Subscriber
	customers []Subscriber
	logger    *slog.Logger
}

// NewFanOut creates an empty fan-out.
func NewFanOut(logger *slog.Logger) *FanOut {
	if logger == nil {
		logger = slog.Default()
	}
	return &FanOut{logger: logger.With("component", "notifications")}
}

// SubscribeKitchen registers a kitchen display or printer.
func (f *FanOut) SubscribeKitchen(ref string, sink ports.NotificationSink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kitchen = append(f.kitchen, Subscriber{Ref: ref, Sink: sink})
}

// SubscribeWaiter registers a waiter by identifier.
func (f *FanOut) SubscribeWaiter(waiterID string, sink ports.NotificationSink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waiters = append(f.waiters, Subscriber{Ref: waiterID, Sink: sink})
}

// SubscribeCustomer registers a customer by identifier or name.
func (f *FanOut) SubscribeCustomer(ref string, sink ports.NotificationSink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers = append(f.customers, Subscriber{Ref: ref, Sink: sink})
}

// NotifyNewOrder tells the kitchen a new order entered preparation.
func (f *FanOut) NotifyNewOrder(ctx context.Context, notification ports.Notification) {
	f.mu.RLock()
	targets := append([]Subscriber(nil), f.kitchen...)
	f.mu.RUnlock()

	f.deliver(ctx, targets, notification)
}

// NotifyOrderReady tells the assigned waiter (or every waiter when the
// order has none) and the customer that the order can be served.
func (f *FanOut) NotifyOrderReady(ctx context.Context, notification ports.Notification) {
	f.mu.RLock()
	targets := f.waiterTargets(notification.WaiterID)
	targets = append(targets, f.customerTargets(notification)...)
	f.mu.RUnlock()

	f.deliver(ctx, targets, notification)
}

// NotifyOrderCancelled tells every subscriber to stop work on the order.
func (f *FanOut) NotifyOrderCancelled(ctx context.Context, notification ports.Notification) {
	f.mu.RLock()
	targets := append([]Subscriber(nil), f.kitchen...)
	targets = append(targets, f.waiters...)
	targets = append(targets, f.customerTargets(notification)...)
	f.mu.RUnlock()

	f.deliver(ctx, targets, notification)
}

// NotifyOrderModified tells the kitchen the order's lines changed.
func (f *FanOut) NotifyOrderModified(ctx context.Context, notification ports.Notification) {
	f.mu.RLock()
	targets := append([]Subscriber(nil), f.kitchen...)
	f.mu.RUnlock()

	f.deliver(ctx, targets, notification)
}

// waiterTargets resolves the assigned waiter's subscription, falling back
// to every waiter when the order is unassigned or the waiter never
// registered. Callers hold at least a read lock.
func (f *FanOut) waiterTargets(waiterID string) []Subscriber {
	if waiterID != "" {
		for _, subscriber := range f.waiters {
			if subscriber.Ref == waiterID {
				return []Subscriber{subscriber}
			}
		}
	}
	return append([]Subscriber(nil), f.waiters...)
}

// customerTargets resolves the ordering customer's subscriptions by ID, or
// by name for walk-ins without an account. Callers hold at least a read
// lock.
func (f *FanOut) customerTargets(notification ports.Notification) []Subscriber {
	ref := notification.CustomerID
	if ref == "" {
		ref = notification.CustomerName
	}
	if ref == "" {
		return nil
	}

	var targets []Subscriber
	for _, subscriber := range f.customers {
		if subscriber.Ref == ref {
			targets = append(targets, subscriber)
		}
	}
	return targets
}

func (f *FanOut) deliver(ctx context.Context, targets []Subscriber, notification ports.Notification) {
	for _, target := range targets {
		if err := target.Sink.Send(ctx, target.Ref, notification); err != nil {
			f.logger.WarnContext(ctx, "notification delivery failed",
				"channel", target.Sink.Channel(),
				"recipient", target.Ref,
				"event", string(notification.Kind),
				"order_id", notification.OrderID,
				"error", err,
			)
		}
	}
}
