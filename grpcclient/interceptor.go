package grpcclient

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/vakamo-labs/middle-go/authorizer"
)

const authorizationKey = "authorization"

// UnaryClientInterceptor returns a gRPC unary client interceptor that injects
// the current Authorization header into outgoing request metadata.
//
// Calls that already carry an authorization entry pass through untouched. If
// no credential is available, the RPC is aborted with the authorizer's error
// rather than sent unauthenticated.
//
// Usage:
//
//	conn, err := grpc.NewClient(
//	    "server:9090",
//	    grpc.WithUnaryInterceptor(grpcclient.UnaryClientInterceptor(a)),
//	)
func UnaryClientInterceptor(a authorizer.Authorizer) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx, err := withAuthorization(ctx, a)
		if err != nil {
			return err
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// StreamClientInterceptor returns a gRPC stream client interceptor that
// injects the current Authorization header into outgoing request metadata.
//
// Behaves like UnaryClientInterceptor: existing authorization metadata wins,
// and stream creation is aborted when no credential is available.
func StreamClientInterceptor(a authorizer.Authorizer) grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		ctx, err := withAuthorization(ctx, a)
		if err != nil {
			return nil, err
		}
		return streamer(ctx, desc, cc, method, opts...)
	}
}

func withAuthorization(ctx context.Context, a authorizer.Authorizer) (context.Context, error) {
	if md, ok := metadata.FromOutgoingContext(ctx); ok && len(md.Get(authorizationKey)) > 0 {
		return ctx, nil
	}

	header, err := a.AuthorizationHeader()
	if err != nil {
		return nil, fmt.Errorf("grpcclient: failed to get authorization header: %w", err)
	}
	return metadata.AppendToOutgoingContext(ctx, authorizationKey, header), nil
}
