package cmd

// Config carries the environment-driven settings of the service.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// SnapshotHistoryLimit caps how many snapshots one order retains.
	SnapshotHistoryLimit int
	// SnapshotRetentionDays bounds snapshot age before the pruning sweep
	// removes them.
	SnapshotRetentionDays int
	// CommandHistoryLimit caps each order's undo/redo history.
	CommandHistoryLimit int
}
