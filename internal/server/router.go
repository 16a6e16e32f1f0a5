package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// BasicRouter implements the [Router] interface on [mux.Router].
//
// Middleware added with [BasicRouter.Use] wraps the whole router, so it also sees unmatched requests.
// Routes flagged Protected or Limited are additionally wrapped with the guard set by
// [BasicRouter.Protect] or [BasicRouter.Limit].
type BasicRouter struct {
	mux         *mux.Router
	middlewares []Middleware
	chain       http.Handler
	protect     Middleware
	limit       Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	m := mux.NewRouter()
	m.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found.")
	})
	m.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	return &BasicRouter{mux: m, middlewares: []Middleware{}, chain: m}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
	r.chain = r.Apply(r.mux)
}

// Protect sets the middleware guarding Protected routes.
func (r *BasicRouter) Protect(m Middleware) { r.protect = m }

// Limit sets the middleware throttling Limited routes.
func (r *BasicRouter) Limit(m Middleware) { r.limit = m }

// Handle registers a handler for the specified HTTP method and path.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(path, handler).Methods(method)
}

// Handler registers every route returned by [Handler.Routes], wrapping guarded routes first.
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		var h http.Handler = route.Handler
		if route.Protected && r.protect != nil {
			h = r.protect(h)
		}
		if route.Limited && r.limit != nil {
			h = r.limit(h)
		}
		r.Handle(route.Method, route.Path, h)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.chain.ServeHTTP(w, req)
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
