package grpcapi

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// NewServer creates the grpc server with the lookup and the health services.
func NewServer(gateway Gateway, log *zap.Logger) *grpc.Server {
	if log == nil {
		log = zap.NewNop()
	}

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(log.Named("grpc"))))
	RegisterLookupServer(server, NewLookupServer(gateway))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	return server
}

// Log every call with its code and duration.
func loggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Info("grpc call",
			zap.String("method", info.FullMethod),
			zap.Stringer("code", status.Code(err)),
			zap.Duration("elapsed", time.Since(start)))
		return resp, err
	}
}
