/*
Package window implements the floating window session manager.

# Overview

A session is one app shown in a movable, resizable overlay window. The app
renders into an isolated render target (see package display) that the
overlay shell mirrors into a surface it owns. The manager keeps at most one
session per app package and drives each through its lifecycle:

	loading -> active <-> minimized
	    \         \          /
	     +-------> closing <+

Minimized sessions are drawn as bubbles stacked along the right edge in
minimize order. The stack is recomputed from scratch on every change.

# Concurrency

All session state is owned by one controller goroutine started with Run.
Exported methods enqueue a closure and wait for it, so callers on any
goroutine see a consistent registry. Delayed work (task resolution after
launch, the resize debounce) is scheduled on a Clock and posted back to the
loop; each pending timer carries a generation number so a callback that
fires after cancellation does nothing.

OnExternalTaskRemoved is the only operation that does not wait. It is meant
to be called from platform callbacks.

# Resize gesture

BeginResize, ResizeMove and EndResize model a drag on the resize handle.
Moves update the overlay at once and re-arm a debounce timer; only when the
gesture pauses is the render target resized. EndResize cancels the timer and
resizes exactly once.

# Events

Lifecycle changes are published on a Bus (session.opened, session.active,
session.raised, session.minimized, session.maximized, session.closed,
session.aborted). Handlers run on the controller loop.
*/
package window
