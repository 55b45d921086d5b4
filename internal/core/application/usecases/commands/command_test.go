package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/menu"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

func TestCreateOrderCommand_Execute(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)

	orderID := env.createOrder(t, ctx)

	o := env.getOrder(t, ctx, orderID)
	assert.Equal(t, order.Pending, o.Status())
	assert.Len(t, o.Lines(), 1)
	assert.Equal(t, "5.00", o.TotalPrice().String())

	assert.Equal(t, []order.HistoryAction{order.HistoryActionCreate}, env.repos.history.actions())
	require.Len(t, env.snapshots.saved, 1)
	assert.Equal(t, "pending", env.snapshots.saved[0].Tag())
	assert.Empty(t, env.notifier.events)
}

func TestCreateOrderCommand_RequiresLines(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewCreateOrderCommand(env.deps, kernel.NewUUID(), nil, "Ana", nil, 4, nil, "")

	assert.ErrorIs(t, err, ErrLinesAreRequired)
}

func TestCreateOrderCommand_UndoDeletesOrder(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)

	productID := env.catalog.addProduct(t, "Café Americano", menu.CategoryBeverages, 250, 5)
	orderID := kernel.NewUUID()
	cmd, err := NewCreateOrderCommand(
		env.deps, orderID, nil, "Ana", nil, 4,
		[]LineSpec{{ProductID: productID, Quantity: 2}},
		"",
	)
	require.NoError(t, err)
	require.NoError(t, cmd.Execute(ctx, env.uow()))
	require.True(t, cmd.CanUndo())

	require.NoError(t, cmd.Undo(ctx, env.uow()))

	_, err = env.repos.orders.Get(ctx, orderID)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.False(t, cmd.CanUndo())
}

func TestAddItemCommand_ExecuteAndUndo(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	orderID := env.createOrder(t, ctx)
	sandwichID := env.catalog.addProduct(t, "Sandwich de Pollo", menu.CategoryMains, 650, 10)

	cmd, err := NewAddItemCommand(env.deps, orderID, sandwichID, 1, nil)
	require.NoError(t, err)
	require.NoError(t, cmd.Execute(ctx, env.uow()))

	o := env.getOrder(t, ctx, orderID)
	assert.Len(t, o.Lines(), 2)
	assert.Equal(t, "11.50", o.TotalPrice().String())
	assert.Contains(t, env.notifier.kinds(), ports.EventOrderModified)
	assert.Equal(t,
		[]order.HistoryAction{order.HistoryActionCreate, order.HistoryActionAddItem},
		env.repos.history.actions(),
	)

	require.NoError(t, cmd.Undo(ctx, env.uow()))

	o = env.getOrder(t, ctx, orderID)
	assert.Len(t, o.Lines(), 1)
	assert.Equal(t, "5.00", o.TotalPrice().String())
}

func TestAddItemCommand_UnknownProduct(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	orderID := env.createOrder(t, ctx)

	cmd, err := NewAddItemCommand(env.deps, orderID, kernel.NewUUID(), 1, nil)
	require.NoError(t, err)

	err = cmd.Execute(ctx, env.uow())

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Nil(t, cmd.ExecutedAt())
}

func TestRemoveItemCommand_UndoRestoresContentsWithNewIdentity(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	orderID := env.createOrder(t, ctx)
	sandwichID := env.catalog.addProduct(t, "Sandwich de Pollo", menu.CategoryMains, 650, 10)

	addCmd, err := NewAddItemCommand(env.deps, orderID, sandwichID, 1, nil)
	require.NoError(t, err)
	require.NoError(t, addCmd.Execute(ctx, env.uow()))

	o := env.getOrder(t, ctx, orderID)
	var sandwichLineID kernel.UUID
	for _, line := range o.Lines() {
		if line.ProductName() == "Sandwich de Pollo" {
			sandwichLineID = line.ID()
		}
	}
	require.NoError(t, sandwichLineID.Validate())

	removeCmd, err := NewRemoveItemCommand(env.deps, orderID, sandwichLineID)
	require.NoError(t, err)
	require.NoError(t, removeCmd.Execute(ctx, env.uow()))

	o = env.getOrder(t, ctx, orderID)
	assert.Len(t, o.Lines(), 1)
	assert.Equal(t, "5.00", o.TotalPrice().String())

	require.NoError(t, removeCmd.Undo(ctx, env.uow()))

	o = env.getOrder(t, ctx, orderID)
	require.Len(t, o.Lines(), 2)
	assert.Equal(t, "11.50", o.TotalPrice().String())

	var restored *order.Line
	for _, line := range o.Lines() {
		if line.ProductName() == "Sandwich de Pollo" {
			restored = line
		}
	}
	require.NotNil(t, restored)
	assert.False(t, restored.ID().IsEqual(sandwichLineID))
	assert.True(t, restored.ProductID().IsEqual(sandwichID))
	assert.Equal(t, "6.50", restored.Subtotal().String())
}

func TestUpdateItemQuantityCommand_ExecuteAndUndo(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	orderID := env.createOrder(t, ctx)

	o := env.getOrder(t, ctx, orderID)
	lineID := o.Lines()[0].ID()

	cmd, err := NewUpdateItemQuantityCommand(env.deps, orderID, lineID, 1)
	require.NoError(t, err)
	require.NoError(t, cmd.Execute(ctx, env.uow()))

	o = env.getOrder(t, ctx, orderID)
	assert.Equal(t, "2.50", o.TotalPrice().String())

	require.NoError(t, cmd.Undo(ctx, env.uow()))

	o = env.getOrder(t, ctx, orderID)
	assert.Equal(t, "5.00", o.TotalPrice().String())
	assert.Equal(t, 2, o.Lines()[0].Quantity())
}

func TestUpdateItemQuantityCommand_RejectsZeroQuantity(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewUpdateItemQuantityCommand(env.deps, kernel.NewUUID(), kernel.NewUUID(), 0)

	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestChangeStatusCommand_AdvancesOneStep(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	orderID := env.createOrder(t, ctx)

	cmd, err := NewChangeStatusCommand(env.deps, orderID, order.InPreparation, nil, "sent to kitchen")
	require.NoError(t, err)
	require.NoError(t, cmd.Execute(ctx, env.uow()))

	o := env.getOrder(t, ctx, orderID)
	assert.Equal(t, order.InPreparation, o.Status())
	assert.Equal(t, []ports.EventKind{ports.EventNewOrder}, env.notifier.kinds())
	require.Len(t, env.snapshots.saved, 2)
	assert.Equal(t, "in_preparation", env.snapshots.saved[1].Tag())

	record := env.repos.history.records[1]
	assert.Equal(t, order.HistoryActionStatusChange, record.Action)
	assert.Equal(t, "PENDING", record.PreviousStatus)
	assert.Equal(t, "IN_PREPARATION", record.NewStatus)
}

func TestChangeStatusCommand_DescriptionBeforeAndAfterExecute(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	orderID := env.createOrder(t, ctx)

	cmd, err := NewChangeStatusCommand(env.deps, orderID, order.InPreparation, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "change status: -> IN_PREPARATION", cmd.Description())

	require.NoError(t, cmd.Execute(ctx, env.uow()))
	assert.Equal(t, "change status: PENDING -> IN_PREPARATION", cmd.Description())
}

func TestChangeStatusCommand_RejectsSkippedStep(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	orderID := env.createOrder(t, ctx)

	cmd, err := NewChangeStatusCommand(env.deps, orderID, order.Ready, nil, "")
	require.NoError(t, err)

	err = cmd.Execute(ctx, env.uow())

	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, order.Pending, env.getOrder(t, ctx, orderID).Status())
}

func TestChangeStatusCommand_RejectsCancelledTarget(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	orderID := env.createOrder(t, ctx)

	cmd, err := NewChangeStatusCommand(env.deps, orderID, order.Cancelled, nil, "")
	require.NoError(t, err)

	err = cmd.Execute(ctx, env.uow())

	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestChangeStatusCommand_UndoRestoresPriorStatus(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	orderID := env.createOrder(t, ctx)

	toPrep, err := NewChangeStatusCommand(env.deps, orderID, order.InPreparation, nil, "")
	require.NoError(t, err)
	require.NoError(t, toPrep.Execute(ctx, env.uow()))

	toReady, err := NewChangeStatusCommand(env.deps, orderID, order.Ready, nil, "")
	require.NoError(t, err)
	require.NoError(t, toReady.Execute(ctx, env.uow()))

	o := env.getOrder(t, ctx, orderID)
	require.Equal(t, order.Ready, o.Status())
	require.NotNil(t, o.PreparedAt())

	require.NoError(t, toReady.Undo(ctx, env.uow()))

	o = env.getOrder(t, ctx, orderID)
	assert.Equal(t, order.InPreparation, o.Status())
	assert.Nil(t, o.PreparedAt())
}

func TestCancelOrderCommand_ExecuteAndUndo(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	orderID := env.createOrder(t, ctx)

	cmd, err := NewCancelOrderCommand(env.deps, orderID, "customer left", nil)
	require.NoError(t, err)
	require.NoError(t, cmd.Execute(ctx, env.uow()))

	o := env.getOrder(t, ctx, orderID)
	assert.Equal(t, order.Cancelled, o.Status())
	assert.Equal(t, []ports.EventKind{ports.EventOrderCancelled}, env.notifier.kinds())
	require.Len(t, env.snapshots.saved, 2)
	assert.Equal(t, "cancelled", env.snapshots.saved[1].Tag())

	record := env.repos.history.records[1]
	assert.Equal(t, order.HistoryActionCancel, record.Action)
	assert.Equal(t, "customer left", record.Reason)

	require.NoError(t, cmd.Undo(ctx, env.uow()))

	assert.Equal(t, order.Pending, env.getOrder(t, ctx, orderID).Status())
}

func TestCancelOrderCommand_RejectedCancellationLeavesNoTrace(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	orderID := env.createOrder(t, ctx)

	toPrep, err := NewChangeStatusCommand(env.deps, orderID, order.InPreparation, nil, "")
	require.NoError(t, err)
	require.NoError(t, toPrep.Execute(ctx, env.uow()))
	toReady, err := NewChangeStatusCommand(env.deps, orderID, order.Ready, nil, "")
	require.NoError(t, err)
	require.NoError(t, toReady.Execute(ctx, env.uow()))

	historyBefore := len(env.repos.history.records)
	eventsBefore := len(env.notifier.events)
	snapshotsBefore := len(env.snapshots.saved)

	cancel, err := NewCancelOrderCommand(env.deps, orderID, "too late", nil)
	require.NoError(t, err)
	err = cancel.Execute(ctx, env.uow())

	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, order.Ready, env.getOrder(t, ctx, orderID).Status())
	assert.Len(t, env.repos.history.records, historyBefore)
	assert.Len(t, env.notifier.events, eventsBefore)
	assert.Len(t, env.snapshots.saved, snapshotsBefore)
	assert.False(t, cancel.CanUndo())
}
