package health

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// startGRPC serves grpc.health.v1 on the configured port. Serving status
// follows SetReady.
func (s *Server) startGRPC() error {
	addr := ":" + s.grpcPort
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc health listen on %s: %w", addr, err)
	}

	s.grpcServer = grpc.NewServer()
	healthpb.RegisterHealthServer(s.grpcServer, s.grpcHealth)

	go func() {
		if s.logger != nil {
			s.logger.WithField("addr", addr).Info("gRPC health server starting")
		}
		if err := s.grpcServer.Serve(lis); err != nil && s.logger != nil {
			s.logger.WithError(err).Error("gRPC health server error")
		}
	}()

	return nil
}
