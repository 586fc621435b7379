// Package guard evaluates route capability checks against the auth store.
// Guard conditions are CEL expressions over the session state, compiled once
// and cached.
package guard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/cel-go/cel"
)

// maxCostBudget bounds CEL runtime cost; guard expressions are tiny, so any
// blowout indicates a bug.
const maxCostBudget = 10_000

// evalTimeout bounds a single guard evaluation.
const evalTimeout = 1 * time.Second

// Evaluator compiles and evaluates guard expressions. Compiled programs are
// cached keyed by the xxhash of the expression text.
type Evaluator struct {
	env *cel.Env

	mu    sync.Mutex
	cache map[uint64]cel.Program
}

// NewEvaluator creates a CEL evaluator with the guard environment.
// Available variables: authenticated, is_admin, stored_admin.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("authenticated", cel.BoolType),
		cel.Variable("is_admin", cel.BoolType),
		cel.Variable("stored_admin", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("create guard environment: %w", err)
	}
	return &Evaluator{
		env:   env,
		cache: make(map[uint64]cel.Program),
	}, nil
}

// Compile parses and type-checks a guard expression, returning a cached
// program when the same expression was compiled before.
func (e *Evaluator) Compile(expression string) (cel.Program, error) {
	key := xxhash.Sum64String(expression)

	e.mu.Lock()
	prg, ok := e.cache[key]
	e.mu.Unlock()
	if ok {
		return prg, nil
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile guard expression: %w", issues.Err())
	}

	prg, err := e.env.Program(ast,
		cel.EvalOptions(cel.OptOptimize),
		cel.CostLimit(maxCostBudget),
	)
	if err != nil {
		return nil, fmt.Errorf("create guard program: %w", err)
	}

	e.mu.Lock()
	e.cache[key] = prg
	e.mu.Unlock()
	return prg, nil
}

// Evaluate runs a compiled guard program against the given activation.
func (e *Evaluator) Evaluate(prg cel.Program, activation map[string]any) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	result, _, err := prg.ContextEval(ctx, activation)
	if err != nil {
		return false, fmt.Errorf("evaluate guard: %w", err)
	}

	allowed, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("guard expression did not return a boolean, got %T", result.Value())
	}
	return allowed, nil
}
