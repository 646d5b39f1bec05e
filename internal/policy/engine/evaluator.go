// Package engine evaluates role-based access policies using OPA Rego.
package engine

import "context"

// Evaluator decides whether a role may perform an action.
type Evaluator interface {
	// Allow reports whether role may perform action. Unknown roles and
	// actions are denied.
	Allow(ctx context.Context, role, action string) (bool, error)
}
