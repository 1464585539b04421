// Package devv1 declares the dev-only freightdesk.dev.v1.DevService gRPC service.
package devv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "freightdesk.dev.v1.DevService"

const DevService_GetOTP_FullMethodName = "/" + ServiceName + "/GetOTP"

// DevServiceServer is the server API for DevService.
type DevServiceServer interface {
	// GetOTP takes {phone} and returns {phone, otp, note}.
	GetOTP(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedDevServiceServer returns Unimplemented for every method.
type UnimplementedDevServiceServer struct{}

func (UnimplementedDevServiceServer) GetOTP(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetOTP not implemented")
}

// RegisterDevServiceServer registers srv on s.
func RegisterDevServiceServer(s grpc.ServiceRegistrar, srv DevServiceServer) {
	s.RegisterService(&DevService_ServiceDesc, srv)
}

func _DevService_GetOTP_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DevServiceServer).GetOTP(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DevService_GetOTP_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DevServiceServer).GetOTP(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// DevService_ServiceDesc is the grpc.ServiceDesc for DevService.
var DevService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DevServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetOTP",
			Handler:    _DevService_GetOTP_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "freightdesk/dev/v1/dev.proto",
}

// DevServiceClient is the client API for DevService.
type DevServiceClient interface {
	GetOTP(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type devServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDevServiceClient(cc grpc.ClientConnInterface) DevServiceClient {
	return &devServiceClient{cc}
}

func (c *devServiceClient) GetOTP(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DevService_GetOTP_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
