// Package main is the entry point for the EdgeLink backend.
//
// The backend owns floating window sessions: it creates isolated render
// targets for apps, routes input into them, binds them to running tasks and
// lays out minimized bubbles. The overlay shell process draws everything and
// connects over a WebSocket.
//
// Architecture:
//
//	Overlay shell  <-- ws /shell -->  EdgeLink backend  <-- HTTP --  tools, tests
//
// The server provides:
//   - WebSocket bridge for the shell host (/shell)
//   - JSON control API for sessions (/sessions, /stats, /health)
//   - Prometheus metrics (/metrics)
//
// Configuration:
//   - Environment variables (PORT, HOST, LOG_LEVEL, LOG_DEV, WINDOW_*, TASK_*,
//     INPUT_*, BRIDGE_*, RATE_LIMIT_*, SHELL_PREFS)
//   - CLI flags override env vars
//
// Usage:
//
//	./server -port 8000 -prefs ~/.config/edgelink/shell.yaml
//
//	# Development mode (colored logs)
//	LOG_DEV=true LOG_LEVEL=debug ./server
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, every open session is closed
package main
