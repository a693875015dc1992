package web

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/reel/internal/server"
)

// RouterOpts configures the middleware stack built by [NewRouter].
type RouterOpts struct {
	Logger            *log.Logger
	SecretKey         string
	RequestsPerSecond float64
	Burst             int
	SecureCookies     bool
}

// NewRouter wires h and the static assets behind the standard middleware stack.
//
// Order: recover, request id, logging, rate limit, CSRF.
func NewRouter(h *Handler, opts RouterOpts) *server.BasicRouter {
	logger := opts.Logger
	if logger == nil {
		logger = h.logger
	}

	router := server.NewBasicRouter()
	router.Use(
		server.Recover(logger),
		server.RequestID(),
		server.Logging(logger),
		server.RateLimit(opts.RequestsPerSecond, opts.Burst),
		server.CSRF(server.CSRFConfig{
			Secret:       []byte(opts.SecretKey),
			CookieSecure: opts.SecureCookies,
		}),
	)

	router.Handler(h)
	router.NotFound(http.HandlerFunc(h.NotFound))
	router.ServeFiles("/static/*filepath", http.FS(staticFiles()))

	return router
}
