// Package logger provides a structured logging facility based on Zap.
//
// The logger writes to stdout and optionally mirrors every entry into a log file,
// so unattended runs (cron, systemd timers) leave a trail next to the binary.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//   - File: optional path of a log file (parent directories are created)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Checking for DLC updates")
//
//	// In an HTTP handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
