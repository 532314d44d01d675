package grpc

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger reports whether the database answers
type Pinger interface {
	Ping() error
}

// BrokerHealth reports whether the event broker connection is open
type BrokerHealth interface {
	IsHealthy() bool
}

// HealthServer implements the gRPC health checking protocol and the /healthz
// HTTP probe from the same dependency checks
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	db     Pinger
	broker BrokerHealth
	log    *zap.Logger
}

// NewHealthServer creates a new health check server
func NewHealthServer(database Pinger, broker BrokerHealth, log *zap.Logger) *HealthServer {
	return &HealthServer{
		db:     database,
		broker: broker,
		log:    log,
	}
}

// check returns an empty reason when every dependency is up
func (h *HealthServer) check() string {
	if err := h.db.Ping(); err != nil {
		h.log.Error("Database health check failed", zap.Error(err))
		return "database connection failed"
	}
	if !h.broker.IsHealthy() {
		h.log.Error("RabbitMQ health check failed")
		return "rabbitmq connection failed"
	}
	return ""
}

func (h *HealthServer) status() grpc_health_v1.HealthCheckResponse_ServingStatus {
	if h.check() != "" {
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

// Check implements the health check
func (h *HealthServer) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	return &grpc_health_v1.HealthCheckResponse{Status: h.status()}, nil
}

// Watch sends the current status once
func (h *HealthServer) Watch(req *grpc_health_v1.HealthCheckRequest, server grpc_health_v1.Health_WatchServer) error {
	return server.Send(&grpc_health_v1.HealthCheckResponse{Status: h.status()})
}

// ServeHTTP answers the /healthz probe
func (h *HealthServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if reason := h.check(); reason != "" {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("unhealthy: " + reason))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("healthy"))
}
