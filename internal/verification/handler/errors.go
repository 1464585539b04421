package handler

import (
	"errors"
	"log"
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"freightdesk/backend/internal/phone"
	"freightdesk/backend/internal/verification/service"
)

const errorDomain = "verification.freightdesk"

type errorMapping struct {
	grpc codes.Code
	http int
}

var reasonMappings = map[string]errorMapping{
	service.ReasonInvalidFormat:        {codes.InvalidArgument, http.StatusBadRequest},
	service.ReasonCountryMismatch:      {codes.InvalidArgument, http.StatusUnprocessableEntity},
	service.ReasonCountryNotSupported:  {codes.FailedPrecondition, http.StatusUnprocessableEntity},
	service.ReasonAccountAlreadyExists: {codes.AlreadyExists, http.StatusConflict},
	service.ReasonAccountNotFound:      {codes.NotFound, http.StatusNotFound},
	service.ReasonAccountDisabled:      {codes.PermissionDenied, http.StatusForbidden},
	service.ReasonRateLimited:          {codes.ResourceExhausted, http.StatusTooManyRequests},
	service.ReasonSMSTransport:         {codes.Unavailable, http.StatusBadGateway},
	service.ReasonNoActiveCode:         {codes.FailedPrecondition, http.StatusGone},
	service.ReasonTooManyAttempts:      {codes.ResourceExhausted, http.StatusLocked},
	service.ReasonInvalidCode:          {codes.Unauthenticated, http.StatusUnauthorized},
	service.ReasonInternal:             {codes.Internal, http.StatusInternalServerError},
}

// failure is the transport-neutral description of a flow error.
type failure struct {
	Reason  string
	Message string
	Example string
	Country string
}

func describe(err error) failure {
	f := failure{Reason: service.Reason(err), Message: err.Error()}
	if f.Reason == service.ReasonInternal {
		log.Printf("verification: internal error: %v", err)
		f.Message = "internal error"
	}
	var ve *phone.ValidationError
	if errors.As(err, &ve) {
		f.Example = ve.Example
		f.Country = ve.Country
	}
	return f
}

// grpcError maps a flow error to a gRPC status carrying an ErrorInfo detail with the reason.
func grpcError(err error) error {
	f := describe(err)
	m := reasonMappings[f.Reason]
	st := status.New(m.grpc, f.Message)
	meta := map[string]string{}
	if f.Example != "" {
		meta["example"] = f.Example
	}
	if f.Country != "" {
		meta["country"] = f.Country
	}
	detailed, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: f.Reason, Domain: errorDomain, Metadata: meta})
	if derr != nil {
		return st.Err()
	}
	return detailed.Err()
}

// httpStatus returns the HTTP status for a failure reason.
func httpStatus(reason string) int {
	if m, ok := reasonMappings[reason]; ok {
		return m.http
	}
	return http.StatusInternalServerError
}
