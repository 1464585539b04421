// Package handler reports readiness through the standard gRPC health service and HTTP probes.
package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const probeTimeout = 2 * time.Second

// Pinger checks database connectivity (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker checks that the SMS policy engine evaluates (e.g. *engine.OPAEvaluator).
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server wraps grpc/health.Server and keeps the serving status of the overall server ("")
// and the named services in sync with the readiness probe.
type Server struct {
	*health.Server
	pinger   Pinger
	policy   PolicyChecker
	services []string
}

// NewServer returns a health server. pinger and policy may be nil; the corresponding check is skipped.
func NewServer(pinger Pinger, policy PolicyChecker, services ...string) *Server {
	return &Server{
		Server:   health.NewServer(),
		pinger:   pinger,
		policy:   policy,
		services: services,
	}
}

// Register registers the grpc.health.v1.Health service on s.
func (s *Server) Register(r grpc.ServiceRegistrar) {
	healthpb.RegisterHealthServer(r, s.Server)
}

// Probe runs the readiness checks. Returns nil when every configured dependency is healthy.
func (s *Server) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if s.pinger != nil {
		if err := s.pinger.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if s.policy != nil {
		if err := s.policy.HealthCheck(ctx); err != nil {
			return fmt.Errorf("policy: %w", err)
		}
	}
	return nil
}

// Refresh probes once and publishes the result. Returns the published status.
func (s *Server) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if err := s.Probe(ctx); err != nil {
		log.Printf("health: not serving: %v", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.SetServingStatus("", st)
	for _, name := range s.services {
		s.SetServingStatus(name, st)
	}
	return st
}

// Run refreshes the status every interval until ctx is done, then marks everything NOT_SERVING.
func (s *Server) Run(ctx context.Context, interval time.Duration) {
	s.Refresh(ctx)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			return
		case <-t.C:
			s.Refresh(ctx)
		}
	}
}

// RegisterRoutes mounts GET /healthz (liveness) and GET /readyz (readiness) on r.
func (s *Server) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if err := s.Probe(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_serving", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "serving"})
	})
}
