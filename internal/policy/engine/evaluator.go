// Package engine decides, through Rego policies, whether a verification code may be
// delivered by SMS to a given number.
package engine

import "context"

// SMSRequest describes the number a code would be sent to.
type SMSRequest struct {
	Country      string // ISO 3166-1 alpha-2 of the detected profile
	LineType     string
	Registration bool
}

// SMSDecision is the policy outcome.
type SMSDecision struct {
	Allowed bool
	Reason  string
}

// Evaluator evaluates the SMS delivery policy.
type Evaluator interface {
	EvaluateSMS(ctx context.Context, req SMSRequest) (SMSDecision, error)
}
