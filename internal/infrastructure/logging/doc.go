// Package logging provides structured logging for sensorgen.
//
// This package wraps Go's standard log/slog package so every command logs
// the same way.
//
// # Features
//
//   - Text output for terminals (default) and JSON for log shippers
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - A CHANGE level for additions that no filter hides
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # text, json
//	  output: "stdout"   # stdout, stderr
//
// SENSORGEN_LOG_LEVEL and SENSORGEN_LOG_FORMAT override the file.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("jsondb target skipped")
//	logger.Change("adding item", "key", key, "name", name)
package logging
