// Package types provides shared data structures for the EdgeLink backend.
//
// Core Types:
//   - AppIdentity: Catalog-resolved app reference (package, label, icon)
//   - Geometry, Point, ScreenMetrics: Overlay placement
//   - SessionState, Visibility: Floating window lifecycle
//   - SessionInfo, Stats: Read-only snapshots for the API
//   - ProcessInfo, TaskID: Externally observed tasks
//
// Input Types:
//   - PointerEvent, KeyEvent: Events routed into a render target
//   - InputEvent: Envelope submitted to the platform input pipeline
//
// Example Usage:
//
//	app := types.AppIdentity{Package: "com.example.mail", Label: "Mail"}
//	sid, err := manager.LaunchOrFocus(ctx, app)
package types
