// Package grpcclient provides gRPC client interceptors and a fluent builder
// for connections that authenticate every call.
//
// The interceptors inject the current Authorization header produced by any
// authorizer.Authorizer into outgoing metadata; calls that already carry an
// authorization entry pass through untouched, and calls are aborted rather
// than sent unauthenticated when no credential is available. The builder
// defaults to TLS 1.2+ with system roots to avoid accidental plaintext
// connections.
//
// # Quick Start
//
//	a, err := authorizer.NewClientCredentialBuilder(
//	    "client-id", "client-secret",
//	    "https://auth.example.com/oauth/v2/token",
//	).WithScopes("openid").Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conn, err := grpcclient.NewBuilder().
//	    WithAddress("server.example.com:9090").
//	    WithAuthorizer(a).
//	    WithTLS("/path/to/ca.crt", "", "", "").
//	    Build()
//
// # Manual Interceptor Wiring
//
//	conn, err := grpc.NewClient(
//	    "server:9090",
//	    grpc.WithUnaryInterceptor(grpcclient.UnaryClientInterceptor(a)),
//	    grpc.WithStreamInterceptor(grpcclient.StreamClientInterceptor(a)),
//	)
package grpcclient
