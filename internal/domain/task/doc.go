// Package task binds floating window sessions to the platform tasks their
// apps run in.
//
// The Registry is a plain one-to-one map pair owned by the window manager's
// controller loop. The Resolver finds a task after launch by matching the
// app's package against a snapshot of running tasks; a miss is an expected,
// silent outcome (ErrNotResolved) and the session simply stays unbound.
// Watch wires task removal notifications from the ProcessObserver.
package task
