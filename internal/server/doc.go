// Package server provides HTTP routing, middleware and the serve loop for the web interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [httprouter.Router] internally, which answers 405 for known
// paths requested with the wrong method.
//
// # Middleware
//
//   - [Recover] turns panics into 500 responses
//   - [RequestID] tags each request with an X-Request-ID
//   - [Logging] writes one charmbracelet/log line per request
//   - [RateLimit] applies a token bucket to all requests
//   - [CSRF] guards form posts with signed double-submit tokens
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, returning a table of [Route] values so
// a handler group keeps its route definitions next to its implementation.
//
// # Serving
//
// [Serve] runs an [http.Server] until its context is cancelled and then shuts down gracefully.
package server
