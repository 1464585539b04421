package otel

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewProviders_EmptyEndpoint(t *testing.T) {
	ctx := context.Background()
	for _, endpoint := range []string{"", "   "} {
		providers, err := NewProviders(ctx, Options{Endpoint: endpoint, ServiceName: "test-service"})
		if err != nil {
			t.Fatalf("NewProviders(%q): %v", endpoint, err)
		}
		if providers.TracerProvider == nil || providers.MeterProvider == nil || providers.LoggerProvider == nil {
			t.Errorf("NewProviders(%q) returned nil provider: %+v", endpoint, providers)
		}
		if err := providers.Shutdown(ctx); err != nil {
			t.Errorf("shutdown should be no-op for empty endpoint, got error: %v", err)
		}
	}
}

func TestNewProviders_InvalidURL(t *testing.T) {
	ctx := context.Background()
	for _, endpoint := range []string{"://invalid", "http://[invalid", "http://"} {
		if _, err := NewProviders(ctx, Options{Endpoint: endpoint, ServiceName: "test-service"}); err == nil {
			t.Errorf("NewProviders(%q) should return error", endpoint)
		}
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		endpoint     string
		override     bool
		wantTarget   string
		wantInsecure bool
	}{
		{"localhost:4317", false, "localhost:4317", true},
		{"http://collector:4317/v1/traces", false, "collector:4317", true},
		{"https://collector:4317", false, "collector:4317", false},
		{"https://collector:4317", true, "collector:4317", true},
	}
	for _, tt := range tests {
		target, insecure, err := parseEndpoint(tt.endpoint, tt.override)
		if err != nil {
			t.Fatalf("parseEndpoint(%q): %v", tt.endpoint, err)
		}
		if target != tt.wantTarget || insecure != tt.wantInsecure {
			t.Errorf("parseEndpoint(%q, %v) = (%q, %v), want (%q, %v)",
				tt.endpoint, tt.override, target, insecure, tt.wantTarget, tt.wantInsecure)
		}
	}
}

func TestNewResource_Environment(t *testing.T) {
	res, err := newResource(Options{ServiceName: "freightdesk-verification", Environment: "staging"})
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found["service.name"] != "freightdesk-verification" {
		t.Errorf("service.name = %q", found["service.name"])
	}
	if found["deployment.environment.name"] != "staging" {
		t.Errorf("deployment.environment.name = %q", found["deployment.environment.name"])
	}
}

func TestSetGlobal(t *testing.T) {
	ctx := context.Background()
	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(ctx) }()
	(&Providers{TracerProvider: tp}).SetGlobal()
	if otel.GetTracerProvider() == prevTP || otel.GetMeterProvider() != prevMP {
		t.Error("SetGlobal with only a tracer must replace the tracer and keep the meter")
	}

	full, err := NewProviders(ctx, Options{ServiceName: "freightdesk-verification"})
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	full.SetGlobal()
	if otel.GetMeterProvider() == prevMP {
		t.Error("SetGlobal must replace the meter provider")
	}
}

func TestShutdownStack(t *testing.T) {
	var order []string
	failing := errors.New("exporter closed")
	stack := shutdownStack{
		func(context.Context) error { order = append(order, "trace"); return nil },
		func(context.Context) error { order = append(order, "metric"); return failing },
		func(context.Context) error { order = append(order, "log"); return nil },
	}
	err := stack.shutdown(context.Background())
	if !errors.Is(err, failing) {
		t.Errorf("err = %v, want exporter error", err)
	}
	if got := strings.Join(order, ","); got != "log,metric,trace" {
		t.Errorf("order = %s, want reverse creation order", got)
	}
	if err := (shutdownStack{}).shutdown(context.Background()); err != nil {
		t.Errorf("empty stack: %v", err)
	}
}
