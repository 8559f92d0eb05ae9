package router

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
)

// Methods lists the HTTP methods a Router routes.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPatch,
	http.MethodHead,
	http.MethodOptions,
}

// A Route is one entry in a Router's table.
type Route struct {
	Method string

	// Pattern is the pattern as stored, after normalizing.
	Pattern string

	// Path is the root of the Router joined with Pattern.
	Path string

	// Segments are the segments of Path.
	Segments []string

	Handler Handler

	hasParam bool
}

// HasParam reports whether the Route's pattern holds a parameter token.
func (r Route) HasParam() bool { return r.hasParam }

// String returns the Route as "METHOD /full/path".
func (r Route) String() string { return fmt.Sprintf("%s %s", r.Method, r.Path) }

// A Router is the route table of one mount.
type Router struct {
	root   string
	routes map[string][]Route
	index  map[string]map[string]int
	frozen atomic.Bool
}

// New constructs a *Router mounted at root.
// An empty root mounts at "/".
func New(root string) *Router {
	r := &Router{
		root:   normalizeRoot(root),
		routes: make(map[string][]Route, len(Methods)),
		index:  make(map[string]map[string]int, len(Methods)),
	}
	for _, m := range Methods {
		r.index[m] = make(map[string]int)
	}

	return r
}

// Root returns the path the Router is mounted at.
func (r *Router) Root() string { return r.root }

// Handle registers h for method under pattern, with and without a trailing slash.
//
// Registering a pattern again replaces its handler and keeps its place in the order.
// The root pattern of a Router mounted at "/" is stored once.
// Handle ignores methods not listed in Methods.
//
// Handle panics once the Router is frozen.
func (r *Router) Handle(method, pattern string, h Handler) {
	if r.frozen.Load() {
		panic(fmt.Sprintf("http-wrapper/http/router: %s %s registered on %s after serving started", method, pattern, r.root))
	}

	method = strings.ToUpper(method)
	idx, ok := r.index[method]
	if !ok {
		return
	}

	withoutSlash := strings.TrimSuffix(normalizePattern(pattern), "/")
	r.set(method, idx, withoutSlash, h)
	if withoutSlash == "" && r.root == "/" {
		return
	}
	r.set(method, idx, withoutSlash+"/", h)
}

func (r *Router) set(method string, idx map[string]int, pattern string, h Handler) {
	if i, ok := idx[pattern]; ok {
		r.routes[method][i].Handler = h
		return
	}

	path := Normalize(r.root + pattern)
	if path == "" {
		path = "/"
	}

	segs := Segments(path)
	idx[pattern] = len(r.routes[method])
	r.routes[method] = append(r.routes[method], Route{
		Method:   method,
		Pattern:  pattern,
		Path:     path,
		Segments: segs,
		Handler:  h,
		hasParam: hasParam(segs),
	})
}

// Get registers h for GET requests under pattern, as Handle does.
func (r *Router) Get(pattern string, h Handler) { r.Handle(http.MethodGet, pattern, h) }

// Post registers h for POST requests under pattern.
func (r *Router) Post(pattern string, h Handler) { r.Handle(http.MethodPost, pattern, h) }

// Put registers h for PUT requests under pattern.
func (r *Router) Put(pattern string, h Handler) { r.Handle(http.MethodPut, pattern, h) }

// Delete registers h for DELETE requests under pattern.
func (r *Router) Delete(pattern string, h Handler) { r.Handle(http.MethodDelete, pattern, h) }

// Patch registers h for PATCH requests under pattern.
func (r *Router) Patch(pattern string, h Handler) { r.Handle(http.MethodPatch, pattern, h) }

// Head registers h for HEAD requests under pattern.
func (r *Router) Head(pattern string, h Handler) { r.Handle(http.MethodHead, pattern, h) }

// Options registers h for OPTIONS requests under pattern.
func (r *Router) Options(pattern string, h Handler) { r.Handle(http.MethodOptions, pattern, h) }

// Lookup returns the Routes registered for method in registration order.
// An unknown method returns an empty slice.
//
// The slice is shared with the Router and must not be modified.
func (r *Router) Lookup(method string) []Route {
	return r.routes[method]
}

// Freeze stops the Router from accepting registrations.
// It reports whether this call did the freezing.
func (r *Router) Freeze() bool {
	return r.frozen.CompareAndSwap(false, true)
}

// Frozen reports whether the Router stopped accepting registrations.
func (r *Router) Frozen() bool { return r.frozen.Load() }

func normalizeRoot(root string) string {
	root = strings.TrimSuffix(Normalize("/"+root), "/")
	if root == "" {
		return "/"
	}

	return root
}

func normalizePattern(pattern string) string {
	if pattern == "" {
		return ""
	}

	return Normalize("/" + pattern)
}
