// Package input routes pointer and key events into render targets.
//
// Pointer events are copied from a pool, retargeted to the session's display
// and submitted through an Injector. Back presses are synthesized as a
// down/up pair sharing one timestamp. Nothing here returns an error to the
// caller: a failed or short-circuited injection is logged and counted, and
// the gesture carries on.
package input
