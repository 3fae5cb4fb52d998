package grpc

import "context"

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	sess, err := s.sessions.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Logged in", "user_id", sess.User.ID)
	return &LoginResponse{AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken, User: sess.User}, nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *RefreshRequest) (*RefreshResponse, error) {
	sess, err := s.sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &RefreshResponse{AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *LogoutRequest) (*LogoutResponse, error) {
	if err := s.sessions.Logout(ctx, userIDFromContext(ctx)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &LogoutResponse{}, nil
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *ChangePasswordRequest) (*ChangePasswordResponse, error) {
	err := s.sessions.ChangePassword(ctx, userIDFromContext(ctx), req.OldPassword, req.NewPassword)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ChangePasswordResponse{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}
