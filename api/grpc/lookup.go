package grpcapi

import (
	"context"
	"errors"

	lookupservice "pokelookup/api/services/lookup"
	"pokelookup/pkg/messages"
	"pokelookup/pkg/models/pokemon"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName      = "pokelookup.LookupService"
	lookupFullMethod = "/" + ServiceName + "/Lookup"
)

// LookupServer is the server API for the lookup service.
// The request is the name, the response has the id, name and spriteUrl fields.
type LookupServer interface {
	Lookup(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error)
}

// LookupServiceDesc describes the service for the grpc server.
var LookupServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LookupServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Lookup",
			Handler:    lookupHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pokelookup/lookup.proto",
}

func lookupHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LookupServer).Lookup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: lookupFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LookupServer).Lookup(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterLookupServer registers the implementation on the server.
func RegisterLookupServer(s grpc.ServiceRegistrar, srv LookupServer) {
	s.RegisterService(&LookupServiceDesc, srv)
}

// Gateway runs the lookups for the server.
type Gateway interface {
	Lookup(ctx context.Context, req lookupservice.Request) (pokemon.Pokemon, error)
}

// Server definition.
type lookupServer struct {
	gateway Gateway
}

// NewLookupServer creates the lookup server over the gateway.
func NewLookupServer(gateway Gateway) LookupServer {
	return &lookupServer{gateway: gateway}
}

func (s *lookupServer) Lookup(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	result, err := s.gateway.Lookup(ctx, lookupservice.Request{
		Source: "grpc",
		Name:   in.GetValue(),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{
		"id":        result.ID,
		"name":      result.Name,
		"spriteUrl": result.SpriteURL,
	})
}

// Convert the lookup errors to grpc status errors.
func toStatus(err error) error {
	var throttled *lookupservice.ThrottledError
	switch {
	case errors.Is(err, lookupservice.ErrInvalidName):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, lookupservice.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &throttled):
		st, detailErr := status.New(codes.ResourceExhausted, err.Error()).
			WithDetails(&errdetails.RetryInfo{RetryDelay: durationpb.New(throttled.RetryAfter)})
		if detailErr != nil {
			return status.Error(codes.ResourceExhausted, err.Error())
		}
		return st.Err()
	default:
		return status.Error(codes.Internal, messages.InternalError)
	}
}
