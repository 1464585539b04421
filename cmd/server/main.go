package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"freightdesk/backend/internal/config"
	"freightdesk/backend/internal/server"
	"freightdesk/backend/internal/telemetry"
	telemetryotel "freightdesk/backend/internal/telemetry/otel"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	providers, err := telemetryotel.NewProviders(ctx, telemetryotel.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	emitter := telemetryotel.NewEventEmitter(providers.LoggerProvider)

	app, err := build(ctx, cfg, emitter)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer app.Close()

	deps := server.Deps{
		Verification: app.verification,
		Health:       app.health,
		AuditRepo:    app.auditRepo,
		Telemetry:    emitter,
	}
	if app.devOTP != nil {
		deps.DevOTPHandler = app.devOTP
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer lis.Close()

	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(server.UnaryInterceptors(deps)...),
	)
	server.RegisterServices(s, deps)

	go app.health.Run(ctx, cfg.HealthInterval())

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := s.Serve(lis); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	var httpSrv *http.Server
	if cfg.HTTPAddr != "" {
		routes := []server.RouteRegistrar{app.health, app.verification}
		if app.devOTP != nil {
			routes = append(routes, app.devOTP)
		}
		httpSrv = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           server.NewRouter(cfg.Production(), emitter, routes...),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("http serve: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down servers...")
	cancel()
	if httpSrv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
		stop()
	}
	s.GracefulStop()
	log.Println("servers stopped")

	// Let in-flight async telemetry emits finish before the exporters close.
	time.Sleep(telemetry.ShutdownDrainDuration)
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
}
