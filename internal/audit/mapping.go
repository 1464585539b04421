package audit

import "strings"

// ActionResource holds action and resource derived from a gRPC full method name.
type ActionResource struct {
	Action   string
	Resource string
}

// Verification method overrides: both RPCs are audited on resource "phone_verification".
const (
	verificationInitiate = "/freightdesk.verification.v1.VerificationService/InitiatePhoneVerification"
	verificationComplete = "/freightdesk.verification.v1.VerificationService/CompletePhoneVerification"
)

// ParseFullMethod returns action and resource for a gRPC full method
// (e.g. /freightdesk.verification.v1.VerificationService/InitiatePhoneVerification).
// Action is a verb: initiate, complete, get, check, or a lowercase method name for others.
// Resource is derived from the service name (e.g. DevService -> dev).
func ParseFullMethod(fullMethod string) ActionResource {
	switch fullMethod {
	case verificationInitiate:
		return ActionResource{Action: "initiate", Resource: ResourcePhoneVerification}
	case verificationComplete:
		return ActionResource{Action: "complete", Resource: ResourcePhoneVerification}
	}
	// fullMethod format: /freightdesk.package.v1.ServiceName/MethodName
	slash := strings.LastIndex(fullMethod, "/")
	if slash < 0 {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	method := fullMethod[slash+1:]
	beforeSlash := fullMethod[:slash]
	dot := strings.LastIndex(beforeSlash, ".")
	if dot < 0 {
		return ActionResource{Action: strings.ToLower(method), Resource: "unknown"}
	}
	return ActionResource{Action: methodToAction(method), Resource: serviceToResource(beforeSlash[dot+1:])}
}

func serviceToResource(serviceName string) string {
	// VerificationService -> verification, DevService -> dev
	s := strings.TrimSuffix(serviceName, "Service")
	if s == "" {
		return "unknown"
	}
	return strings.ToLower(s[0:1]) + s[1:]
}

func methodToAction(method string) string {
	switch {
	case strings.HasPrefix(method, "Get") && method != "Get":
		return "get"
	case strings.HasPrefix(method, "Initiate"):
		return "initiate"
	case strings.HasPrefix(method, "Complete"):
		return "complete"
	case strings.HasPrefix(method, "Check"), strings.HasPrefix(method, "Watch"):
		return "check"
	default:
		return strings.ToLower(method)
	}
}
