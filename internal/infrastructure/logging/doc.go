// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components never create their own logger. The server builds one Logger and
// hands each component a named child via Component, so every line carries
// the subsystem that produced it ("window", "display", "input", "bridge").
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	wlog := logger.Component("window")
//	wlog.Info("Session opened", zap.String("session_id", sid.String()))
package logging
