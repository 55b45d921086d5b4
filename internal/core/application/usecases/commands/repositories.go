// Package commands contains the reversible mutations of the order log.
// Every command implements Execute and Undo against a unit of work, records
// an audit entry, and is replayed or reverted by the CommandLog invoker.
package commands

import (
	"context"

	"cafe/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for commands.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// StationRepoFactory provides access to the station repository within a transaction.
	StationRepoFactory interface {
		StationRepository() ports.StationRepository
	}

	// StationQueueRepoFactory provides access to the station queue repository within a transaction.
	StationQueueRepoFactory interface {
		StationQueueRepository() ports.StationQueueRepository
	}

	// HistoryRepoFactory provides access to the audit-trail repository within a transaction.
	HistoryRepoFactory interface {
		OrderHistoryRepository() ports.OrderHistoryRepository
	}

	// UoW manages one transaction spanning orders, stations, queues and the
	// audit trail. A command's Execute/Undo runs entirely inside one UoW, so
	// a failed command leaves no partial state behind.
	UoW interface {
		TxManager
		OrderRepoFactory
		StationRepoFactory
		StationQueueRepoFactory
		HistoryRepoFactory
	}

	// UoWFactory creates new unit of work instances, one per invocation.
	UoWFactory interface {
		Create() UoW
	}
)
