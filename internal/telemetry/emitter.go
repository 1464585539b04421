// Package telemetry defines structured events about verification flows and RPCs
// and emits them best-effort (see the otel subpackage for the OTel Logs emitter).
package telemetry

import (
	"context"
	"time"
)

// Event types.
const (
	EventCodeIssued       = "verification_code_issued"
	EventCodeVerified     = "verification_code_verified"
	EventVerificationFail = "verification_failed"
	EventGRPCRequest      = "grpc_request"
	EventHTTPRequest      = "http_request"
)

// Event is one structured telemetry event. Phone must already be masked.
type Event struct {
	EventType string
	Source    string
	UserID    string
	Phone     string
	Country   string
	Outcome   string
	Metadata  []byte // JSON
	CreatedAt time.Time
}

// EventEmitter emits telemetry events (e.g. to OTel Logs). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}
