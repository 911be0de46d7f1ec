package grpcclient_test

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/vakamo-labs/middle-go/authorizer"
	"github.com/vakamo-labs/middle-go/grpcclient"
)

const bufSize = 1024

var (
	bufListener = bufconn.Listen(bufSize)
	bufServer   = grpc.NewServer()
	bufOnce     sync.Once
)

func startBufServer() {
	bufOnce.Do(func() {
		go func() {
			_ = bufServer.Serve(bufListener)
		}()
	})
}

func bufDialOptions() []grpc.DialOption {
	startBufServer()

	return []grpc.DialOption{
		grpc.WithContextDialer(func(c context.Context, _ string) (net.Conn, error) {
			select {
			case <-c.Done():
				return nil, c.Err()
			default:
			}
			return bufListener.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
}

// Example demonstrates wiring an authorizer into a gRPC connection with the
// builder.
func Example() {
	a, err := authorizer.NewBearerTokenAuthorizer("my-token")
	if err != nil {
		log.Fatal(err)
	}

	conn, err := grpcclient.NewBuilder().
		WithAddress("bufnet").
		WithAuthorizer(a).
		WithDialOptions(bufDialOptions()...).
		Build()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	fmt.Println("gRPC client configured with bearer token authentication")
	// Output: gRPC client configured with bearer token authentication
}

// ExampleUnaryClientInterceptor demonstrates manual interceptor wiring.
func ExampleUnaryClientInterceptor() {
	a, err := authorizer.NewBearerTokenAuthorizer("my-token")
	if err != nil {
		log.Fatal(err)
	}

	dialOpts := append(bufDialOptions(),
		grpc.WithUnaryInterceptor(grpcclient.UnaryClientInterceptor(a)),
		grpc.WithStreamInterceptor(grpcclient.StreamClientInterceptor(a)),
	)

	conn, err := grpc.NewClient("bufnet", dialOpts...)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	fmt.Println("interceptors attach the authorization header to every call")
	// Output: interceptors attach the authorization header to every call
}
