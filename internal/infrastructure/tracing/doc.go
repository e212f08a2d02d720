/*
Package tracing provides lightweight request tracing for the control API.

Every HTTP request gets a span. Trace and span IDs are prefixed ULIDs from
the id package, propagated through X-Trace-ID / X-Span-ID headers and the
request context, and echoed back in the response so shell-side logs can be
correlated with backend logs.

Finished spans are buffered and logged by a collector goroutine: errors at
warn level, everything else at debug.

# Usage

	tracer := tracing.New("edgelink", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	// In a handler
	traceID := tracing.GetTraceID(c.Request.Context())
*/
package tracing
