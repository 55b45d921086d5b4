package commands

import (
	"context"
	"errors"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// ErrCannotUndo is returned by a command's Undo when the command is not in
// an undoable state (never executed, or already undone). The invoker checks
// CanUndo first, so hitting this error means a caller bypassed the log.
var ErrCannotUndo = errors.New("command cannot be undone")

// Command is one reversible unit of mutation against a single order.
//
// Execute and Undo run inside the unit of work the invoker opens; neither
// commits. A command remembers enough of the prior state during Execute to
// revert itself, and tracks its executed/undone timestamps for CanUndo.
type Command interface {
	// OrderID identifies the order the command mutates. The invoker uses it
	// to serialize commands per order.
	OrderID() kernel.UUID

	// Execute applies the mutation.
	Execute(ctx context.Context, uow UoW) error

	// Undo reverts the mutation using the state captured during Execute.
	Undo(ctx context.Context, uow UoW) error

	// CanUndo reports whether Undo may be called now.
	CanUndo() bool

	// Description is a human-readable summary for history listings.
	Description() string

	// ExecutedAt returns when Execute last ran, nil if never.
	ExecutedAt() *time.Time

	// UndoneAt returns when Undo ran, nil if never.
	UndoneAt() *time.Time
}

// Deps are the collaborators commands share: the catalog for price capture,
// the lifecycle engine for transitions and fan-out, and the clock.
type Deps struct {
	Catalog   ports.MenuCatalog
	Lifecycle *services.Lifecycle
	Clock     ports.Clock
}

// Validate checks that every collaborator is present.
func (d Deps) Validate() error {
	if d.Catalog == nil {
		return errs.NewValueIsRequiredError("catalog")
	}
	if d.Lifecycle == nil {
		return errs.NewValueIsRequiredError("lifecycle")
	}
	if d.Clock == nil {
		return errs.NewValueIsRequiredError("clock")
	}
	return nil
}

// baseCommand carries the executed/undone bookkeeping shared by every
// command. A redone command keeps its undoneAt marker, so a redo cannot be
// undone a second time; snapshot restore is the full-fidelity rollback path.
type baseCommand struct {
	executedAt *time.Time
	undoneAt   *time.Time
}

func (b *baseCommand) CanUndo() bool {
	return b.executedAt != nil && b.undoneAt == nil
}

func (b *baseCommand) ExecutedAt() *time.Time {
	return b.executedAt
}

func (b *baseCommand) UndoneAt() *time.Time {
	return b.undoneAt
}

func (b *baseCommand) markExecuted(now time.Time) {
	t := now
	b.executedAt = &t
}

func (b *baseCommand) markUndone(now time.Time) {
	t := now
	b.undoneAt = &t
}

func appendHistory(
	ctx context.Context,
	uow UoW,
	orderID kernel.UUID,
	action order.HistoryAction,
	previousStatus, newStatus string,
	changedBy *kernel.UUID,
	reason string,
	now time.Time,
) error {
	return uow.OrderHistoryRepository().Append(ctx, order.HistoryRecord{
		ID:             kernel.NewUUID(),
		OrderID:        orderID,
		Action:         action,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		ChangedBy:      changedBy,
		Reason:         reason,
		OccurredAt:     now,
	})
}
