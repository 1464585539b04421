package server

import (
	"google.golang.org/grpc"

	devv1 "freightdesk/backend/api/dev/v1"
	verificationv1 "freightdesk/backend/api/verification/v1"

	auditrepo "freightdesk/backend/internal/audit/repository"
	healthhandler "freightdesk/backend/internal/health/handler"
	"freightdesk/backend/internal/server/interceptors"
	"freightdesk/backend/internal/telemetry"
)

// Deps holds the gRPC handlers and the dependencies of the interceptor chain.
type Deps struct {
	// Verification serves VerificationService. If nil, the service is registered as Unimplemented.
	Verification verificationv1.VerificationServiceServer
	// DevOTPHandler is the dev-only DevService (GetOTP). If nil, DevService is not registered. Set only when dev OTP is enabled and not production.
	DevOTPHandler devv1.DevServiceServer
	// Health serves grpc.health.v1.Health. If nil, the health service is not registered.
	Health *healthhandler.Server
	// AuditRepo receives one audit entry per RPC. If nil, no RPCs are audited.
	AuditRepo auditrepo.Repository
	// Telemetry receives one grpc_request event per RPC. If nil, no events are emitted.
	Telemetry telemetry.EventEmitter
}

// skipMethods are not audited and do not emit telemetry.
var skipMethods = map[string]bool{
	"/grpc.health.v1.Health/Check": true,
	"/grpc.health.v1.Health/Watch": true,
	"/grpc.health.v1.Health/List":  true,
}

// UnaryInterceptors returns the server interceptor chain: request id, then telemetry, then audit.
func UnaryInterceptors(deps Deps) []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{
		interceptors.RequestIDUnary(),
		interceptors.TelemetryUnary(deps.Telemetry, skipMethods),
		interceptors.AuditUnary(deps.AuditRepo, skipMethods),
	}
}

// RegisterServices registers all gRPC services with the given server.
//
// Service → handler mapping:
//   - VerificationService → internal/verification/handler
//   - DevService          → internal/devotp/handler (dev mode only)
//   - grpc.health.v1      → internal/health/handler
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	verification := deps.Verification
	if verification == nil {
		verification = verificationv1.UnimplementedVerificationServiceServer{}
	}
	verificationv1.RegisterVerificationServiceServer(s, verification)
	if deps.Health != nil {
		deps.Health.Register(s)
	}
	if deps.DevOTPHandler != nil {
		devv1.RegisterDevServiceServer(s, deps.DevOTPHandler)
	}
}
