// Package display manages isolated render targets.
//
// A render target is a virtual display created through the platform's
// Primitive. Launched apps draw into it and the overlay shell composites its
// output into a surface it owns. The Provider creates targets with a fixed set
// of flags; each Handle owns one target for its whole life.
//
// Lifecycle:
//
//	Create -> (AttachSurface | Resize)* -> Release
//
// Release is idempotent. After it runs, AttachSurface and Resize return
// ErrReleased and never reach the primitive. Surfaces may be destroyed and
// recreated by the shell at any time; the target and its content survive
// that, and AttachSurface rebinds the new surface.
package display
