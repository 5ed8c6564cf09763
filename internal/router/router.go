package router

import (
	"net/http"
	"slices"
	"sync"
)

// Middleware is a function that wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// Router registers method-scoped routes on an http.ServeMux and runs each
// behind the global chain plus any per-route middleware. Groups share the
// mux and the route table of the router they came from.
type Router struct {
	mux   *http.ServeMux
	chain []Middleware
	table *routeTable
}

type routeTable struct {
	mu       sync.Mutex
	patterns []string
}

// New creates a Router. middleware wraps every route, the catch-all included.
func New(middleware ...Middleware) *Router {
	return &Router{
		mux:   http.NewServeMux(),
		chain: middleware,
		table: &routeTable{},
	}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Get registers a GET route
func (r *Router) Get(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodGet, pattern, handler, middleware...)
}

// Post registers a POST route
func (r *Router) Post(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPost, pattern, handler, middleware...)
}

// Put registers a PUT route
func (r *Router) Put(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPut, pattern, handler, middleware...)
}

// Delete registers a DELETE route
func (r *Router) Delete(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodDelete, pattern, handler, middleware...)
}

// Patch registers a PATCH route
func (r *Router) Patch(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPatch, pattern, handler, middleware...)
}

// Handle registers handler for method and pattern. Conflicting patterns
// panic, as they do on http.ServeMux.
func (r *Router) Handle(method, pattern string, handler http.Handler, middleware ...Middleware) {
	route := method + " " + pattern
	r.mux.Handle(route, r.wrap(handler, middleware))
	r.table.add(route)
}

// Group returns a Router that adds middleware after the current chain.
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		mux:   r.mux,
		chain: append(slices.Clone(r.chain), middleware...),
		table: r.table,
	}
}

// NotFound registers a catch-all handler for requests no route matches.
// It runs behind the global middleware chain.
func (r *Router) NotFound(handler http.HandlerFunc) {
	r.mux.Handle("/", r.wrap(handler, nil))
}

// Routes lists every registered "METHOD pattern", sorted.
func (r *Router) Routes() []string {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	routes := slices.Clone(r.table.patterns)
	slices.Sort(routes)
	return routes
}

// wrap applies the chain then middleware, outermost first.
func (r *Router) wrap(handler http.Handler, middleware []Middleware) http.Handler {
	combined := append(slices.Clone(r.chain), middleware...)

	result := handler
	for _, m := range slices.Backward(combined) {
		result = m(result)
	}
	return result
}

func (t *routeTable) add(route string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.patterns = append(t.patterns, route)
}
