/*
Package resilience provides a circuit breaker for calls into external
collaborators.

# Overview

The window manager talks to an input pipeline and an overlay shell it does
not control. When one of them stops answering, every call would otherwise
wait out its own timeout on the controller loop. The breaker short-circuits
those calls after repeated failures and tries again after a cool-down.

# Usage

	breaker := resilience.New("input", resilience.Settings{
		Timeout:     2 * time.Second,
		ReadyToTrip: resilience.ConsecutiveFailures(20),
	})

	err := breaker.Execute(func() error {
		return injector.Inject(ctx, ev)
	})

	if errors.Is(err, resilience.ErrCircuitOpen) {
		// skip the call until the breaker half-opens
	}

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           v
	                                         Open
*/
package resilience
