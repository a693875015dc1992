package server

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [httprouter.Router] internally, so requests with a known path but the wrong
// method get 405 with an Allow header.
//
// Middleware is applied when a route is registered: call [BasicRouter.Use] first.
type BasicRouter struct {
	router      *httprouter.Router
	middlewares []Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	router := httprouter.New()
	router.HandleMethodNotAllowed = true
	router.RedirectTrailingSlash = true

	return &BasicRouter{
		router:      router,
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path.
//
// The handler is wrapped with all registered middleware.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.router.Handler(method, path, r.Apply(handler))
}

// Handler registers a custom Handler implementation.
//
// All routes returned by [Handler.Routes] are registered.
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.Handle(route.Method, route.Path, route.Handler)
	}
}

// NotFound sets the handler for unmatched paths, wrapped with the middleware stack.
func (r *BasicRouter) NotFound(handler http.Handler) {
	r.router.NotFound = r.Apply(handler)
}

// ServeFiles serves files from root under path, which must end in "/*filepath".
func (r *BasicRouter) ServeFiles(path string, root http.FileSystem) {
	r.router.ServeFiles(path, root)
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
