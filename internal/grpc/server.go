// Package grpc hosts the operational gRPC endpoint: the standard health
// service and server reflection.
package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewServer creates a gRPC server with request logging, the health service
// and reflection registered
func NewServer(health *HealthServer, log *zap.Logger) *grpc.Server {
	server := grpc.NewServer(
		grpc.UnaryInterceptor(LoggingInterceptor(log)),
	)
	grpc_health_v1.RegisterHealthServer(server, health)
	// Enable reflection for grpcurl/grpcui
	reflection.Register(server)
	return server
}

// LoggingInterceptor logs every unary call with its outcome and latency
func LoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		if err != nil {
			log.Error("gRPC request failed",
				zap.String("full_method", info.FullMethod),
				zap.Duration("latency", time.Since(start)),
				zap.Error(err),
			)
		} else {
			log.Debug("gRPC request completed",
				zap.String("full_method", info.FullMethod),
				zap.Duration("latency", time.Since(start)),
			)
		}

		return resp, err
	}
}
