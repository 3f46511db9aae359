// Package grpc exposes the standard gRPC health service so orchestrators can
// probe the marketplace next to its HTTP surface.
package grpc

import (
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported for the marketplace.
const ServiceName = "marketplace.Marketplace"

// NewGRPCServer creates the health server. Both the overall status and
// ServiceName start as NOT_SERVING; main flips them once the HTTP server is
// listening.
func NewGRPCServer(appLogger *logger.Logger) (*grpc.Server, *health.Server) {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor(appLogger.Named("gRPC"))),
	)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	reflection.Register(server)

	appLogger.Info("gRPC server configured", zap.String("health_service", ServiceName))
	return server, healthServer
}

// SetServing marks the marketplace as serving or not.
func SetServing(h *health.Server, serving bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	h.SetServingStatus("", st)
	h.SetServingStatus(ServiceName, st)
}
