package grpcapi

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	enhancev1 "github.com/xtding233/enhance-backend/api/gen/go/enhance/v1"
	"github.com/xtding233/enhance-backend/internal/apperr"
	"github.com/xtding233/enhance-backend/internal/cascade"
	"github.com/xtding233/enhance-backend/internal/logging"
)

// Server is the gRPC front end.
type Server struct {
	server       *grpc.Server
	healthServer *health.Server
	log          *zap.Logger
}

// NewServer registers the calculator, health and reflection services.
func NewServer(calc *cascade.Calculator, log *zap.Logger) *Server {
	log = logging.OrNop(log)
	opts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(4 * 1024 * 1024),
		grpc.MaxSendMsgSize(16 * 1024 * 1024), // simulation logs can be large
		grpc.ConnectionTimeout(30 * time.Second),
		grpc.ChainUnaryInterceptor(errorInterceptor(log)),
	}
	s := grpc.NewServer(opts...)
	healthServer := health.NewServer()

	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(s)

	enhancev1.RegisterCalculatorServer(s, &calculatorService{calc: calc, log: log})
	log.Info("calculator service registered", zap.String("service", ServiceName))

	return &Server{server: s, healthServer: healthServer, log: log}
}

// errorInterceptor turns domain errors into gRPC statuses and logs failures.
func errorInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			log.Info("grpc call failed",
				zap.String("method", info.FullMethod),
				zap.String("code", string(apperr.GetCode(err))),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			return nil, apperr.ToGRPC(err)
		}
		log.Debug("grpc call", zap.String("method", info.FullMethod), zap.Duration("elapsed", time.Since(start)))
		return resp, nil
	}
}

// Serve blocks serving on lis.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("gRPC server starting", zap.String("address", lis.Addr().String()))
	return s.server.Serve(lis)
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	go func() {
		if err := s.Serve(lis); err != nil {
			s.log.Error("gRPC server failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully stops the server, forcing it after a timeout.
func (s *Server) Stop() {
	s.log.Info("Stopping gRPC server")
	s.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		s.log.Info("gRPC server stopped gracefully")
	case <-time.After(5 * time.Second):
		s.log.Warn("gRPC server forced to stop after timeout")
		s.server.Stop()
	}
}
