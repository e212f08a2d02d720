// Package ws provides the WebSocket bridge to the overlay shell host.
//
// The shell host is the platform process that owns windows, render targets,
// the input pipeline and the task list. It connects to /shell and the Bridge
// then stands in for all of those collaborators: it implements the window
// manager's Shell and AppStarter, the display Primitive, the input Injector
// and the task ProcessObserver.
//
// Every message is a JSON Frame encoded with sonic:
//
//	{"type": "...", "id": "...", "reply_to": "...", "payload": {...}, "error": "..."}
//
// Backend -> shell: add_surface, update_geometry, remove_surface,
// set_visibility, set_loading, place_edge_handle, create_display,
// attach_display, resize_display, release_display, inject_input, start_app,
// snapshot_processes, watch_tasks, unwatch_tasks, event, pong.
//
// Shell -> backend: surface_ready, surface_lost, task_removed,
// screen_metrics, launch, minimize, maximize, close, expand, back, move,
// resize_begin, resize_move, resize_end, pointer, handle_prefs, ping.
//
// Frames that need an answer carry a UUID in "id" and are answered by a
// "reply" frame whose "reply_to" echoes it. Requests in either direction
// follow that rule. Backend requests fail with ErrRequestTimeout when the
// host does not answer in time and with ErrNotConnected when no host is
// attached.
//
// Example Usage:
//
//	bridge := ws.NewBridge(ws.DefaultConfig(), breaker, metrics, logger)
//	bridge.Bind(manager)
//	bridge.ForwardEvents(manager.Bus())
//	router.GET("/shell", bridge.HandleConnection)
package ws
