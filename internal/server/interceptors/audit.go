package interceptors

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"freightdesk/backend/internal/audit"
	"freightdesk/backend/internal/audit/domain"
	auditrepo "freightdesk/backend/internal/audit/repository"
)

// rpcAuditMetadata is the JSON shape stored in AuditLog.Metadata for RPC entries.
type rpcAuditMetadata struct {
	StatusCode string `json:"status_code"`
	RequestID  string `json:"request_id,omitempty"`
}

// AuditUnary stores one audit row per RPC, after the handler ran. Methods in skipMethods are not recorded.
// A failed insert is logged and never changes the RPC result.
func AuditUnary(auditRepo auditrepo.Repository, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if auditRepo != nil && !skipMethods[info.FullMethod] {
			if createErr := auditRepo.Create(ctx, rpcAuditRow(ctx, info.FullMethod, err)); createErr != nil {
				log.Printf("audit: rpc %s not recorded: %v", info.FullMethod, createErr)
			}
		}
		return resp, err
	}
}

func rpcAuditRow(ctx context.Context, fullMethod string, rpcErr error) *domain.AuditLog {
	requestID, _ := GetRequestID(ctx)
	meta, _ := json.Marshal(rpcAuditMetadata{StatusCode: status.Code(rpcErr).String(), RequestID: requestID})
	target := audit.ParseFullMethod(fullMethod)
	return &domain.AuditLog{
		ID:        uuid.New().String(),
		Action:    target.Action,
		Resource:  target.Resource,
		IP:        ClientIP(ctx),
		Metadata:  string(meta),
		CreatedAt: time.Now().UTC(),
	}
}

// ClientIP resolves the caller address: the value stored by WithClientIP, then the first
// x-forwarded-for hop, then x-real-ip, then the transport peer. "unknown" when none is set.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey).(string); ok && ip != "" {
		return ip
	}
	md, _ := metadata.FromIncomingContext(ctx)
	if hop, _, _ := strings.Cut(firstValue(md, "x-forwarded-for"), ","); strings.TrimSpace(hop) != "" {
		return strings.TrimSpace(hop)
	}
	if ip := strings.TrimSpace(firstValue(md, "x-real-ip")); ip != "" {
		return ip
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		addr := p.Addr.String()
		if host, _, err := net.SplitHostPort(addr); err == nil {
			return host
		}
		return addr
	}
	return "unknown"
}

func firstValue(md metadata.MD, key string) string {
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
