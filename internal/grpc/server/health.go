// Package server поднимает служебный gRPC-сервер со стандартным сервисом health-check.
//
// Пока приложение работает, сервис отвечает SERVING, при остановке NOT_SERVING.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server — gRPC-сервер здоровья.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	services   []string
	log        *slog.Logger
}

// New слушает addr. services — имена сервисов, о которых сообщается помимо общего статуса.
func New(addr string, log *slog.Logger, services ...string) (*Server, error) {
	const op = "grpc.server.New"
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return NewWithListener(lis, log, services...), nil
}

// NewWithListener создаёт сервер поверх готового listener.
func NewWithListener(lis net.Listener, log *slog.Logger, services ...string) *Server {
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	reflection.Register(grpcServer)

	s := &Server{
		grpcServer: grpcServer,
		health:     hs,
		listener:   lis,
		services:   services,
		log:        log,
	}
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	for _, name := range s.services {
		s.health.SetServingStatus(name, status)
	}
}

// Addr возвращает адрес, на котором слушает сервер.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Run обслуживает запросы, пока не отменён ctx.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("health gRPC server listening", slog.String("address", s.Addr()))
		errCh <- s.grpcServer.Serve(s.listener)
	}()
	s.setStatus(healthpb.HealthCheckResponse_SERVING)

	select {
	case <-ctx.Done():
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
