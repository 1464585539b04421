package server

import (
	"context"
	"testing"

	"google.golang.org/grpc"

	devv1 "freightdesk/backend/api/dev/v1"
	verificationv1 "freightdesk/backend/api/verification/v1"
	healthhandler "freightdesk/backend/internal/health/handler"
)

// mockServiceRegistrar implements grpc.ServiceRegistrar for testing.
type mockServiceRegistrar struct {
	services []string
}

func (m *mockServiceRegistrar) RegisterService(desc *grpc.ServiceDesc, impl interface{}) {
	m.services = append(m.services, desc.ServiceName)
}

func (m *mockServiceRegistrar) has(name string) bool {
	for _, s := range m.services {
		if s == name {
			return true
		}
	}
	return false
}

// mockDevService implements devv1.DevServiceServer for testing.
type mockDevService struct {
	devv1.UnimplementedDevServiceServer
}

func TestRegisterServices_AllServicesRegistered(t *testing.T) {
	mockReg := &mockServiceRegistrar{}
	RegisterServices(mockReg, Deps{
		Health:        healthhandler.NewServer(nil, nil),
		DevOTPHandler: &mockDevService{},
	})

	if len(mockReg.services) != 3 {
		t.Fatalf("registered %v, want 3 services", mockReg.services)
	}
	for _, name := range []string{verificationv1.ServiceName, "grpc.health.v1.Health", devv1.DevService_ServiceDesc.ServiceName} {
		if !mockReg.has(name) {
			t.Errorf("service %q not registered", name)
		}
	}
}

func TestRegisterServices_DevServiceNotRegisteredWhenNil(t *testing.T) {
	mockReg := &mockServiceRegistrar{}
	RegisterServices(mockReg, Deps{Health: healthhandler.NewServer(nil, nil)})

	if mockReg.has(devv1.DevService_ServiceDesc.ServiceName) {
		t.Error("DevService should not be registered")
	}
	if len(mockReg.services) != 2 {
		t.Errorf("registered %v, want 2 services", mockReg.services)
	}
}

func TestRegisterServices_NilDependencies(t *testing.T) {
	mockReg := &mockServiceRegistrar{}
	RegisterServices(mockReg, Deps{})

	if len(mockReg.services) != 1 || !mockReg.has(verificationv1.ServiceName) {
		t.Errorf("registered %v, want only the verification service", mockReg.services)
	}
}

func TestUnaryInterceptors_ChainRunsHandler(t *testing.T) {
	chain := UnaryInterceptors(Deps{})
	if len(chain) != 3 {
		t.Fatalf("chain length = %d, want 3", len(chain))
	}
	called := false
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		called = true
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: verificationv1.VerificationService_InitiatePhoneVerification_FullMethodName}
	// Compose the chain the way grpc.ChainUnaryInterceptor does.
	next := handler
	for i := len(chain) - 1; i >= 0; i-- {
		ic, h := chain[i], next
		next = func(ctx context.Context, req interface{}) (interface{}, error) {
			return ic(ctx, req, info, h)
		}
	}
	resp, err := next(context.Background(), nil)
	if err != nil || resp != "ok" || !called {
		t.Errorf("chain = (%v, %v), called = %v", resp, err, called)
	}
}
