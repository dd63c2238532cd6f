package control

import (
	"context"

	"google.golang.org/grpc"

	"go.klb.dev/cliptrans/internal/session"
	"go.klb.dev/cliptrans/internal/translate"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "cliptrans.v1.Control"

// controlServer is the handler set the service descriptor dispatches to.
type controlServer interface {
	Status(context.Context, *Empty) (*session.Status, error)
	SetLanguage(context.Context, *LanguageRequest) (*LanguageResponse, error)
	Open(context.Context, *Empty) (*ToggleResponse, error)
	Hide(context.Context, *Empty) (*ToggleResponse, error)
	Copy(context.Context, *Empty) (*CopyResponse, error)
	Translate(context.Context, *TranslateRequest) (*translate.Result, error)
	Watch(*WatchRequest, grpc.ServerStream) error
}

func fullMethod(name string) string { return "/" + ServiceName + "/" + name }

// unary builds the descriptor of a request/response method.
func unary[Req, Resp any](name string, call func(controlServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(controlServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(controlServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(WatchRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(controlServer).Watch(in, stream)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*controlServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Status", controlServer.Status),
		unary("SetLanguage", controlServer.SetLanguage),
		unary("Open", controlServer.Open),
		unary("Hide", controlServer.Hide),
		unary("Copy", controlServer.Copy),
		unary("Translate", controlServer.Translate),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "cliptrans/v1/control",
}
