package connect

import (
	"context"
	"crypto/subtle"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

const (
	// APITokenHeader is the header name for the API token.
	APITokenHeader = "X-Api-Token"
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-Id"
)

// NewAuthInterceptor creates an interceptor that validates the API token
// from request metadata.
func NewAuthInterceptor(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			got := req.Header().Get(APITokenHeader)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return nil, connect.NewError(connect.CodeUnauthenticated, nil)
			}
			return next(ctx, req)
		}
	}
}

// NewRequestIDInterceptor tags each call with a request id and a context
// logger carrying it, and logs the outcome.
func NewRequestIDInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			id := req.Header().Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			logger := zlog.Logger.With().Str("request_id", id).Logger()
			ctx = logger.WithContext(ctx)

			resp, err := next(ctx, req)
			if err != nil {
				logger.Warn().Str("procedure", req.Spec().Procedure).Str("code", connect.CodeOf(err).String()).Msg("rpc failed")
				return nil, err
			}
			resp.Header().Set(RequestIDHeader, id)
			logger.Info().Str("procedure", req.Spec().Procedure).Msg("rpc")
			return resp, nil
		}
	}
}

// NewTokenClientInterceptor attaches the API token to outgoing calls.
func NewTokenClientInterceptor(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token != "" {
				req.Header().Set(APITokenHeader, token)
			}
			return next(ctx, req)
		}
	}
}

// HandlerOptions returns the interceptors for the server side. The token
// check is installed only when a token is configured.
func HandlerOptions(token string) []connect.HandlerOption {
	interceptors := []connect.Interceptor{NewRequestIDInterceptor()}
	if token != "" {
		interceptors = append(interceptors, NewAuthInterceptor(token))
	}
	return []connect.HandlerOption{connect.WithInterceptors(interceptors...)}
}
