package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GetCallerFromContext returns the caller set by the auth interceptor: the
// service name of a service token or the user id of an admin token.
func GetCallerFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Errorf(codes.Unauthenticated, "metadata is not provided")
	}

	callers := md.Get("caller")
	if len(callers) == 0 || callers[0] == "" {
		return "", status.Errorf(codes.Unauthenticated, "caller is not provided in metadata")
	}
	return callers[0], nil
}
