// Package route holds the storefront navigation surface: the route table,
// guard attachment and the current location. It implements the Navigator
// consumed by the auth store.
package route

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/CursosTech/cursoteca/internal/domain/guard"
)

// Route is one entry of the navigation surface. A nil Guard means public.
// Patterns support a single trailing parameter segment, e.g.
// "/productos/{id}".
type Route struct {
	Pattern string
	Guard   *guard.Guard
}

// Resolution is the outcome of resolving a path.
type Resolution struct {
	// Path is the path that should render, after any redirect.
	Path string

	// Pattern is the matched route pattern ("" when redirected off an
	// unknown path).
	Pattern string

	// Params holds pattern parameters, e.g. {"id": "7"}.
	Params map[string]string

	// Decision is the guard outcome; DecisionAllowed for public routes.
	Decision guard.Decision

	// Redirected reports whether the requested path was replaced.
	Redirected bool
}

// Table resolves paths against the registered routes and tracks the
// current location.
type Table struct {
	logger *slog.Logger

	mu      sync.Mutex
	routes  []Route
	current string
}

// NewTable creates an empty route table positioned at the home view.
func NewTable(logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{
		logger:  logger.With("component", "route"),
		current: "/",
	}
}

// Register appends a route. Routes are matched in registration order.
func (t *Table) Register(r Route) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = append(t.routes, r)
}

// Resolve matches path against the table. Unknown paths redirect to the
// home view. Guarded routes resolve to pending while the session is still
// rehydrating, and to the guard's redirect target when denied.
func (t *Table) Resolve(path string) Resolution {
	t.mu.Lock()
	routes := make([]Route, len(t.routes))
	copy(routes, t.routes)
	t.mu.Unlock()

	for _, r := range routes {
		params, ok := match(r.Pattern, path)
		if !ok {
			continue
		}
		if r.Guard == nil {
			return Resolution{Path: path, Pattern: r.Pattern, Params: params, Decision: guard.DecisionAllowed}
		}
		switch d := r.Guard.Check(); d {
		case guard.DecisionPending:
			return Resolution{Path: path, Pattern: r.Pattern, Params: params, Decision: d}
		case guard.DecisionDenied:
			t.logger.Debug("route denied", "path", path, "redirect", r.Guard.Redirect())
			return Resolution{Path: r.Guard.Redirect(), Pattern: r.Pattern, Params: params, Decision: d, Redirected: true}
		default:
			return Resolution{Path: path, Pattern: r.Pattern, Params: params, Decision: d}
		}
	}

	// Wildcard: everything unknown goes home.
	return Resolution{Path: "/", Decision: guard.DecisionAllowed, Redirected: true}
}

// Navigate resolves path and moves the current location to the resolved
// path. Pending resolutions keep the requested path so the caller can
// re-resolve once the session settles.
func (t *Table) Navigate(path string) {
	res := t.Resolve(path)
	t.mu.Lock()
	t.current = res.Path
	t.mu.Unlock()
}

// Current returns the current location.
func (t *Table) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// match compares a pattern with a concrete path, extracting {param}
// segments. Both are compared segment by segment; a trailing slash is
// insignificant.
func match(pattern, path string) (map[string]string, bool) {
	ps := splitPath(pattern)
	xs := splitPath(path)
	if len(ps) != len(xs) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range ps {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if xs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, 1)
			}
			params[seg[1:len(seg)-1]] = xs[i]
			continue
		}
		if seg != xs[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
