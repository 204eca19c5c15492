// Package http provides the HTTP client collaborator used by tasks: an
// asynchronous dispatcher over net/http with a cancellable, suspendable handle
// per request.
//
// Dispatch
//   - Dispatch(req, done) starts the request on its own goroutine and returns a Handle.
//   - done is invoked exactly once per dispatch, on that goroutine, with the
//     fully read body, the response (Body replaced by http.NoBody) or an error.
//   - A canceled dispatch still completes, with a CanceledError.
//
// Handle
//   - Cancel cancels the request context.
//   - Suspend holds the request before it is sent and pauses body reads between
//     chunks; Resume releases it. Suspension does not stop the clock of the
//     client timeout.
//
// Request pipeline
//   - Default headers fill in only missing values.
//   - The trace ID header (X-Request-ID by default) is taken from the context or
//     generated; W3C traceparent/tracestate are added when enabled.
//   - Request interceptors run last before sending; an interceptor error aborts
//     the dispatch with an InterceptorError.
//   - Response interceptors run before the body is read.
//
// No retries are performed.
package http
