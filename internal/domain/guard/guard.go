package guard

import (
	"log/slog"

	"github.com/google/cel-go/cel"

	"github.com/CursosTech/cursoteca/internal/domain/session"
	"github.com/CursosTech/cursoteca/internal/port/outbound"
)

// Decision is the tri-state outcome of a guard check.
type Decision int

const (
	// DecisionPending means the auth store has not finished rehydrating;
	// render a waiting indicator instead of allowing or redirecting.
	DecisionPending Decision = iota

	// DecisionDenied means the subtree must not render; redirect instead.
	DecisionDenied

	// DecisionAllowed means the subtree may render.
	DecisionAllowed
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionDenied:
		return "denied"
	case DecisionAllowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// AuthState is the slice of the auth store a guard consumes.
type AuthState interface {
	Loading() bool
	Current() (session.Session, bool)
}

// Guard expressions. The admin expression requires the durable-storage
// admin flag to independently agree with the in-memory session flag; this
// double-check is preserved from the reference behavior as-is.
const (
	userExpression  = "authenticated"
	adminExpression = "authenticated && is_admin && stored_admin"
)

// Guard gates rendering of a route subtree on a compiled condition over the
// session state.
type Guard struct {
	name     string
	prg      cel.Program
	ev       *Evaluator
	auth     AuthState
	storage  outbound.Storage
	redirect string
	logger   *slog.Logger
}

// NewUserGuard allows any authenticated user. Denied checks redirect to the
// login view.
func NewUserGuard(ev *Evaluator, auth AuthState, logger *slog.Logger) (*Guard, error) {
	return newGuard(ev, "user", userExpression, auth, nil, "/iniciar-sesion", logger)
}

// NewAdminGuard allows administrators only, and only when the durable
// admin flag reads "true" as well. Denied checks redirect to the home view.
func NewAdminGuard(ev *Evaluator, auth AuthState, storage outbound.Storage, logger *slog.Logger) (*Guard, error) {
	return newGuard(ev, "admin", adminExpression, auth, storage, "/", logger)
}

func newGuard(ev *Evaluator, name, expression string, auth AuthState, storage outbound.Storage, redirect string, logger *slog.Logger) (*Guard, error) {
	if logger == nil {
		logger = slog.Default()
	}
	prg, err := ev.Compile(expression)
	if err != nil {
		return nil, err
	}
	return &Guard{
		name:     name,
		prg:      prg,
		ev:       ev,
		auth:     auth,
		storage:  storage,
		redirect: redirect,
		logger:   logger.With("component", "guard", "guard", name),
	}, nil
}

// Check evaluates the guard. While the auth store is still rehydrating the
// decision is pending. The durable admin flag is re-read on every check, so
// a stale in-memory session disagreeing with persisted state is denied.
func (g *Guard) Check() Decision {
	if g.auth.Loading() {
		return DecisionPending
	}

	sess, authenticated := g.auth.Current()

	storedAdmin := false
	if g.storage != nil {
		if v, err := g.storage.Get(outbound.KeyIsAdmin); err == nil {
			storedAdmin = v == "true"
		}
	}

	allowed, err := g.ev.Evaluate(g.prg, map[string]any{
		"authenticated": authenticated,
		"is_admin":      authenticated && sess.IsAdmin,
		"stored_admin":  storedAdmin,
	})
	if err != nil {
		g.logger.Error("guard evaluation failed, denying", "error", err)
		return DecisionDenied
	}
	if !allowed {
		return DecisionDenied
	}
	return DecisionAllowed
}

// Redirect is the path a denied check navigates to.
func (g *Guard) Redirect() string {
	return g.redirect
}
