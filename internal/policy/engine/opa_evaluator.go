package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

const policyQuery = "data.freightdesk.sms_delivery"

// DefaultRegoPolicy allows SMS delivery to every supported country.
const DefaultRegoPolicy = `package freightdesk.sms_delivery

default allow := false

allow if {
	input.phone.country in input.supported_countries
}

reason := "country not enabled for SMS delivery" if {
	not allow
}
`

// OPAEvaluator evaluates the SMS delivery policy with an in-process OPA Rego engine.
// The policy is compiled once at construction.
type OPAEvaluator struct {
	query     rego.PreparedEvalQuery
	supported []string
}

// NewOPAEvaluator compiles policy (DefaultRegoPolicy when empty). supported lists the
// country ids passed to the policy as input.supported_countries.
func NewOPAEvaluator(ctx context.Context, policy string, supported []string) (*OPAEvaluator, error) {
	if policy == "" {
		policy = DefaultRegoPolicy
	}
	compiler, err := ast.CompileModules(map[string]string{"sms_delivery.rego": policy})
	if err != nil {
		return nil, fmt.Errorf("compile sms policy: %w", err)
	}
	pq, err := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare sms policy: %w", err)
	}
	return &OPAEvaluator{query: pq, supported: append([]string(nil), supported...)}, nil
}

// LoadPolicyFile reads a Rego policy from path. An empty path yields DefaultRegoPolicy.
func LoadPolicyFile(path string) (string, error) {
	if path == "" {
		return DefaultRegoPolicy, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read sms policy: %w", err)
	}
	return string(b), nil
}

// EvaluateSMS evaluates the policy for req. Evaluation errors are returned, never defaulted.
func (e *OPAEvaluator) EvaluateSMS(ctx context.Context, req SMSRequest) (SMSDecision, error) {
	supported := make([]interface{}, len(e.supported))
	for i, c := range e.supported {
		supported[i] = c
	}
	input := map[string]interface{}{
		"phone": map[string]interface{}{
			"country":   req.Country,
			"line_type": req.LineType,
		},
		"registration":        req.Registration,
		"supported_countries": supported,
	}
	rs, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return SMSDecision{}, fmt.Errorf("eval sms policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return SMSDecision{}, errors.New("sms policy returned no result")
	}
	doc, ok := rs[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return SMSDecision{}, fmt.Errorf("sms policy returned %T, want object", rs[0].Expressions[0].Value)
	}
	out := SMSDecision{}
	out.Allowed, _ = doc["allow"].(bool)
	out.Reason, _ = doc["reason"].(string)
	return out, nil
}

// HealthCheck evaluates the compiled policy with a minimal input. Returns nil on success.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	country := "FR"
	if len(e.supported) > 0 {
		country = e.supported[0]
	}
	_, err := e.EvaluateSMS(ctx, SMSRequest{Country: country})
	return err
}
