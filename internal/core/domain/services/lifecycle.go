package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// LifecycleStore is the slice of a unit of work the lifecycle engine needs.
// ports.UnitOfWork satisfies it.
type LifecycleStore interface {
	OrderRepository() ports.OrderRepository
	StationQueueRepository() ports.StationQueueRepository
}

// StateInfo is the pure projection of an order's lifecycle position: the
// current state, what the caller may do with it, and where advancing leads.
type StateInfo struct {
	Status     string
	CanAdvance bool
	CanCancel  bool
	CanEdit    bool
	Next       string
}

// Lifecycle is the domain service driving orders through their states.
// It owns the on-enter side effects of each transition and their ordering:
// the status write comes first, then persistence, then notification fan-out,
// then the snapshot, so observers reading mid-fan-out see the new status and
// the snapshot always captures the post-transition state.
//
// Notification delivery is best-effort and never fails the transition;
// snapshot capture is part of the transition and does.
type Lifecycle struct {
	snapshots ports.SnapshotStore
	notifier  ports.Notifier
	clock     ports.Clock
	logger    *slog.Logger
}

// NewLifecycle creates the lifecycle engine with its collaborators.
func NewLifecycle(
	snapshots ports.SnapshotStore,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
) (*Lifecycle, error) {
	if snapshots == nil {
		return nil, errs.NewValueIsRequiredError("snapshots")
	}
	if notifier == nil {
		return nil, errs.NewValueIsRequiredError("notifier")
	}
	if clock == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Lifecycle{
		snapshots: snapshots,
		notifier:  notifier,
		clock:     clock,
		logger:    logger.With("component", "lifecycle"),
	}, nil
}

// RecordCreated applies the PENDING entry side effect for a freshly
// persisted order: the "pending" snapshot. There is no fan-out at creation;
// the kitchen hears about the order when it enters IN_PREPARATION.
func (l *Lifecycle) RecordCreated(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return l.snapshot(ctx, o, "order created")
}

// Advance moves the order to its successor state and applies that state's
// entry side effects.
//
// Returns the new status, or an InvalidTransitionError from a terminal
// state, or a PreconditionFailedError (order unmodified) when entering
// IN_PREPARATION with no lines.
func (l *Lifecycle) Advance(ctx context.Context, store LifecycleStore, o *order.Order) (order.Status, error) {
	if err := o.Validate(); err != nil {
		return order.Unknown, err
	}

	next, err := o.Advance(l.clock.Now())
	if err != nil {
		return order.Unknown, err
	}

	if err = store.OrderRepository().Update(ctx, o); err != nil {
		return order.Unknown, err
	}

	switch next {
	case order.InPreparation:
		l.notifier.NotifyNewOrder(ctx, l.notification(o, ports.EventNewOrder, "order sent to kitchen"))
	case order.Ready:
		l.notifier.NotifyOrderReady(ctx, l.notification(o, ports.EventOrderReady, "order ready to serve"))
	}

	if err = l.snapshot(ctx, o, "status advanced"); err != nil {
		return order.Unknown, err
	}

	l.logger.InfoContext(ctx, "order advanced",
		"order_id", o.ID().String(),
		"status", next.String(),
	)
	return next, nil
}

// Cancel moves the order to CANCELLED and applies the cancellation side
// effects: fan-out, snapshot, and release of the order's pending station
// queue entries.
func (l *Lifecycle) Cancel(ctx context.Context, store LifecycleStore, o *order.Order, reason string) (order.Status, error) {
	if err := o.Validate(); err != nil {
		return order.Unknown, err
	}

	next, err := o.Cancel()
	if err != nil {
		return order.Unknown, err
	}

	if err = store.OrderRepository().Update(ctx, o); err != nil {
		return order.Unknown, err
	}

	notification := l.notification(o, ports.EventOrderCancelled, reason)
	l.notifier.NotifyOrderCancelled(ctx, notification)

	if err = l.snapshot(ctx, o, reason); err != nil {
		return order.Unknown, err
	}

	if err = store.StationQueueRepository().DeleteIncompleteForOrder(ctx, o.ID()); err != nil {
		return order.Unknown, err
	}

	l.logger.InfoContext(ctx, "order cancelled",
		"order_id", o.ID().String(),
		"reason", reason,
	)
	return next, nil
}

// NotifyModified fans out an ORDER_MODIFIED event after a line mutation.
// It is not a transition, so there is no snapshot and no persistence here;
// the mutating command handles those.
func (l *Lifecycle) NotifyModified(ctx context.Context, o *order.Order) {
	l.notifier.NotifyOrderModified(ctx, l.notification(o, ports.EventOrderModified, "order lines changed"))
}

// Query returns the order's lifecycle position without side effects.
func (l *Lifecycle) Query(o *order.Order) (StateInfo, error) {
	if err := o.Validate(); err != nil {
		return StateInfo{}, err
	}

	status := o.Status()
	info := StateInfo{
		Status:     status.String(),
		CanAdvance: status.CanAdvance(),
		CanCancel:  status.CanCancel(),
		CanEdit:    status.CanEdit(),
	}
	if next, ok := status.Next(); ok {
		info.Next = next.String()
	}
	return info, nil
}

// SnapshotTag returns the tag transitions snapshot under: the lowercase
// state name ("pending", "in_preparation", ...).
func SnapshotTag(status order.Status) string {
	return strings.ToLower(status.String())
}

func (l *Lifecycle) snapshot(ctx context.Context, o *order.Order, reason string) error {
	memento, err := order.TakeSnapshot(o, SnapshotTag(o.Status()), reason, l.clock.Now())
	if err != nil {
		return err
	}
	return l.snapshots.Save(ctx, memento)
}

func (l *Lifecycle) notification(o *order.Order, kind ports.EventKind, message string) ports.Notification {
	var customerID string
	if id := o.CustomerID(); id != nil {
		customerID = id.String()
	}
	var waiterID string
	if id := o.WaiterID(); id != nil {
		waiterID = id.String()
	}

	return ports.Notification{
		Kind:         kind,
		OrderID:      o.ID().String(),
		Status:       o.Status().String(),
		TableNumber:  o.TableNumber(),
		CustomerID:   customerID,
		CustomerName: o.CustomerName(),
		WaiterID:     waiterID,
		Message:      fmt.Sprintf("order %s: %s", o.ID(), message),
	}
}
