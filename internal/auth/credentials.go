package auth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const authorizationKey = "authorization"

// TokenCredentials подписывает каждый вызов gRPC свежим токеном узла
type TokenCredentials struct {
	NodeID string
	Secure bool
}

func (c TokenCredentials) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	token, err := GenerateToken(c.NodeID)
	if err != nil {
		return nil, err
	}
	return map[string]string{authorizationKey: "Bearer " + token}, nil
}

func (c TokenCredentials) RequireTransportSecurity() bool {
	return c.Secure
}

// UnaryServerInterceptor проверяет токен в метаданных входящего вызова
func UnaryServerInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, ErrMissingAuthHeader.Error())
	}

	var header string
	if values := md.Get(authorizationKey); len(values) > 0 {
		header = values[0]
	}

	claims, err := authenticate(header)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return handler(context.WithValue(ctx, NodeContextKey, claims), req)
}
