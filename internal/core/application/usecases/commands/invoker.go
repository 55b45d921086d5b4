package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
)

// DefaultMaxHistory bounds how many executed commands a log retains.
const DefaultMaxHistory = 50

// HistoryEntry is one row of a command log listing.
type HistoryEntry struct {
	Description string
	ExecutedAt  *time.Time
	UndoneAt    *time.Time
	CanUndo     bool
}

// CommandLog executes commands for a single order and keeps a bounded,
// cursor-based history so they can be undone and redone.
//
// The history holds every executed command; the cursor points at the last
// command still in effect. Executing a new command discards everything past
// the cursor, so a redo opportunity survives only until the next fresh
// command. When the history exceeds its cap the oldest command is evicted
// and becomes permanently irreversible.
//
// A mutex serializes Execute, Undo and Redo, making the log the single
// writer for its order.
type CommandLog struct {
	mu         sync.Mutex
	uowFactory UoWFactory
	history    []Command
	cursor     int
	maxHistory int
	logger     *slog.Logger
}

// NewCommandLog creates an empty command log.
func NewCommandLog(uowFactory UoWFactory, maxHistory int, logger *slog.Logger) (*CommandLog, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	if maxHistory < 1 {
		maxHistory = DefaultMaxHistory
	}

	return &CommandLog{
		uowFactory: uowFactory,
		cursor:     -1,
		maxHistory: maxHistory,
		logger:     logger.With("component", "command-log"),
	}, nil
}

// Execute runs the command in its own transaction and records it in the
// history. Commands past the cursor are discarded first, so an undone
// command can no longer be redone after a new command lands.
func (l *CommandLog) Execute(ctx context.Context, cmd Command) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.runInTx(ctx, cmd.Execute); err != nil {
		return err
	}

	l.history = append(l.history[:l.cursor+1], cmd)
	l.cursor++

	if len(l.history) > l.maxHistory {
		l.history = l.history[1:]
		l.cursor--
	}

	l.logger.InfoContext(ctx, "command executed",
		"order_id", cmd.OrderID(),
		"description", cmd.Description(),
	)
	return nil
}

// Undo reverts the command at the cursor. It reports false without error
// when there is nothing to undo or the command at the cursor is no longer
// undoable.
func (l *CommandLog) Undo(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cursor < 0 {
		return false, nil
	}

	cmd := l.history[l.cursor]
	if !cmd.CanUndo() {
		return false, nil
	}

	if err := l.runInTx(ctx, cmd.Undo); err != nil {
		return false, err
	}
	l.cursor--

	l.logger.InfoContext(ctx, "command undone",
		"order_id", cmd.OrderID(),
		"description", cmd.Description(),
	)
	return true, nil
}

// Redo re-executes the command just past the cursor. It reports false
// without error when there is nothing to redo. The command runs Execute
// again; its earlier undone marker stays in place, so a redone command
// cannot be undone a second time.
func (l *CommandLog) Redo(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cursor >= len(l.history)-1 {
		return false, nil
	}

	cmd := l.history[l.cursor+1]
	if err := l.runInTx(ctx, cmd.Execute); err != nil {
		return false, err
	}
	l.cursor++

	l.logger.InfoContext(ctx, "command redone",
		"order_id", cmd.OrderID(),
		"description", cmd.Description(),
	)
	return true, nil
}

// History lists the commands currently in effect, oldest first.
func (l *CommandLog) History() []HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]HistoryEntry, 0, l.cursor+1)
	for _, cmd := range l.history[:l.cursor+1] {
		entries = append(entries, HistoryEntry{
			Description: cmd.Description(),
			ExecutedAt:  cmd.ExecutedAt(),
			UndoneAt:    cmd.UndoneAt(),
			CanUndo:     cmd.CanUndo(),
		})
	}
	return entries
}

func (l *CommandLog) runInTx(ctx context.Context, op func(context.Context, UoW) error) error {
	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := op(ctx, uow); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// CommandLogRegistry hands out one CommandLog per order, creating it on
// first use. The per-order log's mutex serializes all mutations of that
// order issued through commands.
type CommandLogRegistry struct {
	mu         sync.Mutex
	logs       map[string]*CommandLog
	uowFactory UoWFactory
	maxHistory int
	logger     *slog.Logger
}

// NewCommandLogRegistry creates a registry producing logs with the given
// history cap.
func NewCommandLogRegistry(uowFactory UoWFactory, maxHistory int, logger *slog.Logger) (*CommandLogRegistry, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &CommandLogRegistry{
		logs:       make(map[string]*CommandLog),
		uowFactory: uowFactory,
		maxHistory: maxHistory,
		logger:     logger,
	}, nil
}

// ForOrder returns the log dedicated to the given order.
func (r *CommandLogRegistry) ForOrder(orderID kernel.UUID) *CommandLog {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := orderID.String()
	if log, ok := r.logs[key]; ok {
		return log
	}

	maxHistory := r.maxHistory
	if maxHistory < 1 {
		maxHistory = DefaultMaxHistory
	}
	log := &CommandLog{
		uowFactory: r.uowFactory,
		cursor:     -1,
		maxHistory: maxHistory,
		logger:     r.logger.With("component", "command-log", "order_id", key),
	}
	r.logs[key] = log
	return log
}
