package transport

import (
	"context"
	"sync/atomic"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is the gRPC health service name of the dashboard API.
const ServiceName = "greenchain.dashboard"

// HealthHandler implements grpc.health.v1.Health for the dashboard.
type HealthHandler struct {
	healthpb.UnimplementedHealthServer

	serving atomic.Bool
}

// NewHealthHandler returns a HealthHandler reporting SERVING.
func NewHealthHandler() *HealthHandler {
	h := &HealthHandler{}
	h.serving.Store(true)
	return h
}

// Shutdown makes subsequent checks report NOT_SERVING.
func (h *HealthHandler) Shutdown() {
	h.serving.Store(false)
}

// Check reports server health for the overall server or the dashboard service.
func (h *HealthHandler) Check(_ context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	switch req.GetService() {
	case "", ServiceName:
	default:
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}

	if !h.serving.Load() {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
