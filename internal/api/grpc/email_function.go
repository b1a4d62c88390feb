// Package grpc serves the booking email function over gRPC and provides the
// client the storefront uses to call it.
package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"eventrent-backend/internal/config"
	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/email"
	"eventrent-backend/internal/logger"
)

// EmailFunctionServer is the server API of eventrent.email.v1.BookingEmailFunction.
type EmailFunctionServer interface {
	Send(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var EmailFunctionServiceDesc = grpc.ServiceDesc{
	ServiceName: "eventrent.email.v1.BookingEmailFunction",
	HandlerType: (*EmailFunctionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Send", Handler: sendHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eventrent/email/v1/function.proto",
}

func RegisterEmailFunctionServer(s grpc.ServiceRegistrar, srv EmailFunctionServer) {
	s.RegisterService(&EmailFunctionServiceDesc, srv)
}

func sendHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EmailFunctionServer).Send(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: config.EmailFunctionMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EmailFunctionServer).Send(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// EmailFunction runs the booking email function for one request.
type EmailFunction interface {
	Handle(ctx context.Context, req email.Request) error
}

type EmailFunctionHandler struct {
	fn EmailFunction
}

func NewEmailFunctionHandler(fn EmailFunction) *EmailFunctionHandler {
	return &EmailFunctionHandler{fn: fn}
}

func (h *EmailFunctionHandler) Send(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := MapStructToRequest(in)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed email request: %v", err)
	}
	if caller, err := GetCallerFromContext(ctx); err == nil {
		logger.DebugContext(ctx, "Email function called", "caller", caller, "type", req.Type)
	}

	if err := h.fn.Handle(ctx, req); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return nil, status.Error(codes.InvalidArgument, verr.Error())
		}
		logger.ErrorContext(ctx, "Error sending email", "type", req.Type, "error", err)
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return MapResponseToStruct(email.Response{Success: true}), nil
}
