package server

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freightdesk/backend/internal/server/interceptors"
	"freightdesk/backend/internal/telemetry"
)

// RouteRegistrar mounts its routes on a gin router.
type RouteRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}

// httpRequestMetadata is the JSON shape stored in Event.Metadata for http_request events.
type httpRequestMetadata struct {
	Method     string `json:"method"`
	Route      string `json:"route"`
	Status     int    `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
	RequestID  string `json:"request_id"`
}

// NewRouter returns a gin engine with recovery, request context and telemetry middleware and the given routes mounted.
// In production gin runs in release mode.
func NewRouter(production bool, emitter telemetry.EventEmitter, routes ...RouteRegistrar) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestContext())
	router.Use(requestTelemetry(emitter))
	for _, r := range routes {
		if r != nil {
			r.RegisterRoutes(router)
		}
	}
	return router
}

// requestContext stores the request id and client IP in the request context and echoes the id header.
func requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(interceptors.RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(interceptors.RequestIDHeader, id)
		ctx := interceptors.WithRequestID(c.Request.Context(), id)
		ctx = interceptors.WithClientIP(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requestTelemetry emits one http_request event per request. Health probes are skipped.
func requestTelemetry(emitter telemetry.EventEmitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if emitter == nil || route == "/healthz" || route == "/readyz" {
			return
		}
		requestID, _ := interceptors.GetRequestID(c.Request.Context())
		meta, _ := json.Marshal(httpRequestMetadata{
			Method:     c.Request.Method,
			Route:      route,
			Status:     c.Writer.Status(),
			DurationMs: time.Since(start).Milliseconds(),
			ClientIP:   c.ClientIP(),
			RequestID:  requestID,
		})
		outcome := "ok"
		if c.Writer.Status() >= 400 {
			outcome = "error"
		}
		telemetry.EmitAsync(emitter, c.Request.Context(), &telemetry.Event{
			EventType: telemetry.EventHTTPRequest,
			Source:    "http_middleware",
			Outcome:   outcome,
			Metadata:  meta,
			CreatedAt: time.Now().UTC(),
		})
	}
}
