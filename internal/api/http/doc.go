// Package http exposes the window manager as a JSON control API.
//
// Routes:
//
//	GET    /health                 liveness and shell host status
//	GET    /stats                  session counts per state
//	GET    /sessions               every open session
//	POST   /sessions               {package, label, icon} launch or focus
//	GET    /sessions/:id           one session
//	DELETE /sessions/:id           close
//	POST   /sessions/:id/minimize
//	POST   /sessions/:id/maximize
//	POST   /sessions/:id/resize    {width, height}
//	POST   /sessions/:id/move      {x, y}
//	POST   /sessions/:id/expand    promote to full screen
//	POST   /sessions/:id/back      inject a Back key press
//
// Errors map to status codes: unknown session 404, transition not allowed
// from the current state 409, invalid app 400, manager stopped 503.
package http
