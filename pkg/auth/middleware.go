package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Header and metadata names carrying the API key.
const (
	HeaderAPIKey   = "X-API-Key"
	MetadataAPIKey = "x-api-key"
)

// ErrInvalidCredentials is returned by an Authenticator for a missing or
// unknown key. Any other error is treated as an internal failure.
var ErrInvalidCredentials = errors.New("invalid api key")

// Authenticator resolves an API key to a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, apiKey string) (Principal, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, apiKey string) (Principal, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, apiKey string) (Principal, error) {
	return f(ctx, apiKey)
}

// APIKeyFromRequest reads the key from X-API-Key, falling back to a
// "Bearer" Authorization header.
func APIKeyFromRequest(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(HeaderAPIKey)); key != "" {
		return key
	}
	if v := r.Header.Get("Authorization"); strings.HasPrefix(v, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(v, "Bearer "))
	}
	return ""
}

// UnaryAuthInterceptor returns a gRPC unary server interceptor for API-key auth.
func UnaryAuthInterceptor(authn Authenticator, skipMethods []string) grpc.UnaryServerInterceptor {
	skipSet := make(map[string]struct{}, len(skipMethods))
	for _, m := range skipMethods {
		skipSet[m] = struct{}{}
	}

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		// Skip authentication for whitelisted methods.
		if _, skip := skipSet[info.FullMethod]; skip {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		keys := md.Get(MetadataAPIKey)
		if len(keys) == 0 || strings.TrimSpace(keys[0]) == "" {
			return nil, status.Error(codes.Unauthenticated, "missing api key")
		}

		principal, err := authn.Authenticate(ctx, strings.TrimSpace(keys[0]))
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, status.Error(codes.Unauthenticated, "invalid api key")
		}
		if err != nil {
			return nil, status.Error(codes.Internal, "authentication failed")
		}

		return handler(ContextWithPrincipal(ctx, principal), req)
	}
}
