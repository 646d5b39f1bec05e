package engine

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

const policyPackage = "baaisahab.rbac"

// Default Rego policy: admins may perform the administrative actions, every
// other role is denied.
const defaultRegoPolicy = `package baaisahab.rbac

default allow = false

admin_actions := {"stats.read", "audit.read"}

allow if {
	input.role == "admin"
	input.action in admin_actions
}
`

// OPAEvaluator evaluates role-based access policies with the in-process OPA
// Rego engine. The policy is compiled once at construction.
type OPAEvaluator struct {
	query rego.PreparedEvalQuery
}

// NewOPAEvaluator compiles the given Rego policy modules and returns an
// evaluator over them. With no modules it uses the built-in default policy.
func NewOPAEvaluator(ctx context.Context, policies ...string) (*OPAEvaluator, error) {
	if len(policies) == 0 {
		policies = []string{defaultRegoPolicy}
	}
	modules := make(map[string]string, len(policies))
	for i, policy := range policies {
		modules[fmt.Sprintf("policy_%d.rego", i)] = policy
	}
	compiler, err := ast.CompileModules(modules)
	if err != nil {
		return nil, fmt.Errorf("compile policies: %w", err)
	}
	query, err := rego.New(
		rego.Query("data."+policyPackage+".allow"),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare query: %w", err)
	}
	return &OPAEvaluator{query: query}, nil
}

// Allow reports whether role may perform action.
func (e *OPAEvaluator) Allow(ctx context.Context, role, action string) (bool, error) {
	rs, err := e.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"role":   role,
		"action": action,
	}))
	if err != nil {
		return false, fmt.Errorf("eval policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, nil
	}
	return allowed, nil
}

// HealthCheck verifies the prepared policy query evaluates. Returns nil on
// success.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	rs, err := e.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"role":   "user",
		"action": "stats.read",
	}))
	if err != nil {
		return fmt.Errorf("eval policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return fmt.Errorf("policy query returned no result")
	}
	return nil
}
