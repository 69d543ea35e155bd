// Package logging provides structured logging with context propagation
// for the workflow engine, built on log/slog.
//
// # Basic Usage
//
//	logger := logging.New(logging.DefaultConfig())
//	logger.WithRunID(run.RunID()).WithNodeID(node.ID).Info("node started")
//
// # Context Integration
//
//	ctx = logger.WithContext(ctx)
//	// ... downstream:
//	logging.FromContext(ctx).Error("node failed")
//
// # Thread Safety
//
// Logger values are immutable: each With* method returns a new Logger
// wrapping an extended slog.Logger, so a base logger can be shared freely
// across goroutines.
package logging
