// Package verificationv1 declares the freightdesk.verification.v1.VerificationService gRPC service.
// Requests and responses are google.protobuf.Struct messages; field names are listed on each method.
package verificationv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "freightdesk.verification.v1.VerificationService"

const (
	VerificationService_InitiatePhoneVerification_FullMethodName = "/" + ServiceName + "/InitiatePhoneVerification"
	VerificationService_CompletePhoneVerification_FullMethodName = "/" + ServiceName + "/CompletePhoneVerification"
)

// Request and response field names.
const (
	FieldPhone                = "phone"
	FieldCountry              = "country"
	FieldIsRegistration       = "is_registration"
	FieldCode                 = "code"
	FieldMessage              = "message"
	FieldRequiresRegistration = "requires_registration"
	FieldInternational        = "international"
	FieldDisplay              = "display"
	FieldExpiresAt            = "expires_at"
	FieldVerified             = "verified"
	FieldUserID               = "user_id"
	FieldNewAccount           = "new_account"
	FieldPhoneProof           = "phone_proof"
	FieldPhoneProofExpiresAt  = "phone_proof_expires_at"
	FieldDevCode              = "dev_code"
)

// VerificationServiceServer is the server API for VerificationService.
type VerificationServiceServer interface {
	// InitiatePhoneVerification takes {phone, country?, is_registration} and returns
	// {message, requires_registration, international, display, country, expires_at, dev_code?}.
	InitiatePhoneVerification(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// CompletePhoneVerification takes {phone, code} and returns
	// {verified, international, user_id?, new_account, phone_proof?, phone_proof_expires_at?}.
	CompletePhoneVerification(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedVerificationServiceServer returns Unimplemented for every method.
type UnimplementedVerificationServiceServer struct{}

func (UnimplementedVerificationServiceServer) InitiatePhoneVerification(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method InitiatePhoneVerification not implemented")
}

func (UnimplementedVerificationServiceServer) CompletePhoneVerification(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CompletePhoneVerification not implemented")
}

// RegisterVerificationServiceServer registers srv on s.
func RegisterVerificationServiceServer(s grpc.ServiceRegistrar, srv VerificationServiceServer) {
	s.RegisterService(&VerificationService_ServiceDesc, srv)
}

func _VerificationService_InitiatePhoneVerification_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VerificationServiceServer).InitiatePhoneVerification(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: VerificationService_InitiatePhoneVerification_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(VerificationServiceServer).InitiatePhoneVerification(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _VerificationService_CompletePhoneVerification_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VerificationServiceServer).CompletePhoneVerification(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: VerificationService_CompletePhoneVerification_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(VerificationServiceServer).CompletePhoneVerification(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// VerificationService_ServiceDesc is the grpc.ServiceDesc for VerificationService.
var VerificationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VerificationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "InitiatePhoneVerification",
			Handler:    _VerificationService_InitiatePhoneVerification_Handler,
		},
		{
			MethodName: "CompletePhoneVerification",
			Handler:    _VerificationService_CompletePhoneVerification_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "freightdesk/verification/v1/verification.proto",
}

// VerificationServiceClient is the client API for VerificationService.
type VerificationServiceClient interface {
	InitiatePhoneVerification(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CompletePhoneVerification(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type verificationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewVerificationServiceClient(cc grpc.ClientConnInterface) VerificationServiceClient {
	return &verificationServiceClient{cc}
}

func (c *verificationServiceClient) InitiatePhoneVerification(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, VerificationService_InitiatePhoneVerification_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *verificationServiceClient) CompletePhoneVerification(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, VerificationService_CompletePhoneVerification_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
