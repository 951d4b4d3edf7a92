// Package authz decides which roles may perform which actions.  The rules
// live in an embedded Rego policy evaluated with Open Policy Agent.
package authz

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/open-policy-agent/opa/rego"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// Actions checked by the access gate.
const (
	ActionCreateTrain  = "create_train"
	ActionBookSeat     = "book_seat"
	ActionViewBookings = "view_bookings"
)

//go:embed policy.rego
var policySource string

// Policy is a prepared OPA query.  It is safe for concurrent use.
type Policy struct {
	query rego.PreparedEvalQuery
}

// NewPolicy compiles the embedded policy.
func NewPolicy(ctx context.Context) (*Policy, error) {
	return NewPolicyFromSource(ctx, policySource)
}

// NewPolicyFromSource compiles a policy that must define
// data.trainbooking.authz.allow.
func NewPolicyFromSource(ctx context.Context, src string) (*Policy, error) {
	q, err := rego.New(
		rego.Query("data.trainbooking.authz.allow"),
		rego.Module("policy.rego", src),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile authz policy: %w", err)
	}
	return &Policy{query: q}, nil
}

// Allowed reports whether role may perform action.
func (p *Policy) Allowed(ctx context.Context, role model.Role, action string) (bool, error) {
	rs, err := p.query.Eval(ctx, rego.EvalInput(map[string]any{
		"role":   string(role),
		"action": action,
	}))
	if err != nil {
		return false, fmt.Errorf("evaluate authz policy: %w", err)
	}
	return rs.Allowed(), nil
}
