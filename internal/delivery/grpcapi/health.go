package grpcapi

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service key checked by load balancers.
const ServiceName = "escrow.v1.EscrowService"

// HealthServer reports SERVING while the database answers pings.
type HealthServer struct {
	srv      *health.Server
	ping     func(ctx context.Context) error
	interval time.Duration
}

func NewHealthServer(ping func(ctx context.Context) error, interval time.Duration) *HealthServer {
	return &HealthServer{srv: health.NewServer(), ping: ping, interval: interval}
}

func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.srv)
}

// Check runs one probe and publishes the result for both the overall and the
// named service.
func (h *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if h.ping != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := h.ping(pingCtx); err != nil {
			slog.Warn("health probe failed", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.srv.SetServingStatus("", status)
	h.srv.SetServingStatus(ServiceName, status)
	return status
}

// Run probes until ctx is done, then marks everything NOT_SERVING.
func (h *HealthServer) Run(ctx context.Context) {
	h.Check(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.srv.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
