package grpc

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/getsentry/sentry-go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

var protectedMethods = map[string]bool{
	MethodLogout:         true,
	MethodChangePassword: true,
}

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// accessTokenInterceptor verifies the access_token metadata on protected
// methods and stores the user id in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, common.Kind(common.ErrorUnauthorized))
	}

	userID, err := s.sessions.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return handler(context.WithValue(ctx, userIDKey, userID), req)
}

func (s *GRPCServer) recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			sentry.WithScope(func(scope *sentry.Scope) {
				scope.SetExtra("panic", rec)
				scope.SetExtra("stack", string(debug.Stack()))
				sentry.CaptureMessage("panic in gRPC handler")
			})
			s.logger.Error(ctx, "panic recovered", "method", info.FullMethod, "panic", fmt.Sprint(rec))
			resp, err = nil, status.Error(codes.Internal, "Internal")
		}
	}()
	return handler(ctx, req)
}

var codeByKind = map[string]codes.Code{
	"InvalidInput":         codes.InvalidArgument,
	"AuthenticationFailed": codes.Unauthenticated,
	"InvalidCredentials":   codes.Unauthenticated,
	"Unauthorized":         codes.Unauthenticated,
	"TokenExpired":         codes.Unauthenticated,
	"TokenInvalid":         codes.Unauthenticated,
	"RefreshTokenStale":    codes.Unauthenticated,
	"Forbidden":            codes.PermissionDenied,
	"NotFound":             codes.NotFound,
	"AlreadyExists":        codes.AlreadyExists,
	"StorageFailure":       codes.Unavailable,
}

// toStatus converts a service error into a status whose message is the
// error kind. Causes are logged, never sent.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	kind := common.Kind(err)
	code, found := codeByKind[kind]
	if !found {
		code = codes.Internal
	}
	if code == codes.Internal || code == codes.Unavailable {
		s.logger.Error(ctx, "rpc failed", "kind", kind, "error", err)
		sentry.CaptureException(err)
	}
	return status.Error(code, kind)
}
