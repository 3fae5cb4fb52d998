// Package grpc exposes the session operations as vidstream.auth.AuthService.
// Messages are plain Go structs carried by a JSON codec.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"google.golang.org/grpc"
)

type Sessions interface {
	Login(ctx context.Context, identifier, password string) (*models.Session, error)
	Refresh(ctx context.Context, presented string) (*models.Session, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

type GRPCServer struct {
	address  string
	sessions Sessions
	logger   logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, sessions Sessions) *GRPCServer {
	return &GRPCServer{
		address:  address,
		sessions: sessions,
		logger:   l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoveryInterceptor, s.accessTokenInterceptor))
	RegisterAuthServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
