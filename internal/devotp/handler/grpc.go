// Package handler implements the dev-only DevService (GetOTP) over gRPC and HTTP.
package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	devv1 "freightdesk/backend/api/dev/v1"
	"freightdesk/backend/internal/devotp"
	"freightdesk/backend/internal/phone"
)

const devOTPNote = "DEV MODE ONLY"

// Server implements DevService. Only registered when dev OTP is enabled and not production.
type Server struct {
	devv1.UnimplementedDevServiceServer
	store devotp.Store
}

// NewServer returns a DevService server that reads codes from the given store.
func NewServer(store devotp.Store) *Server {
	return &Server{store: store}
}

// GetOTP returns the plain code last issued to phone. Returns NotFound if missing or expired.
func (s *Server) GetOTP(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw := req.GetFields()["phone"].GetStringValue()
	if raw == "" {
		return nil, status.Error(codes.InvalidArgument, "phone is required")
	}
	intl, code, err := s.lookup(ctx, raw)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]interface{}{
		"phone": intl,
		"otp":   code,
		"note":  devOTPNote,
	})
}

func (s *Server) lookup(ctx context.Context, raw string) (string, string, error) {
	intl, err := phone.Normalize(raw)
	if err != nil {
		return "", "", status.Error(codes.InvalidArgument, err.Error())
	}
	code, ok := s.store.Get(ctx, intl)
	if !ok {
		return intl, "", status.Error(codes.NotFound, "OTP not found or expired")
	}
	return intl, code, nil
}
