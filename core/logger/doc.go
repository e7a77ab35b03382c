// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports development and
// production settings and integrates with the Fiber web framework.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it
// to the log entry, so every line of one request can be correlated. Patch runs
// carry a run_id field instead.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json, console, or auto (console when stderr is a terminal)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "auto"})
//	log.Info("Patch written")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
