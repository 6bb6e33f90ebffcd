package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/ogurasousui/staffing-workflow/internal/adapters/grpc/handler"
	"github.com/ogurasousui/staffing-workflow/internal/adapters/grpc/staffingv1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
}

// New は StaffingService とヘルスチェックを登録した gRPC サーバーを構築します。
func New(listenAddr string, svc handler.Services, logger *slog.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	srv := grpc.NewServer(opts...)
	staffingv1.RegisterStaffingServiceServer(srv, handler.NewStaffingHandler(svc))

	hs := health.NewServer()
	hs.SetServingStatus(staffingv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     hs,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は lis で待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	s.logger.Info("grpc server listening", slog.String("addr", lis.Addr().String()))
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
