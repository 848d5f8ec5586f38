package grpcapi

import (
	"context"
	"fmt"

	"pokelookup/pkg/models/pokemon"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// LookupClient calls a remote lookup service.
type LookupClient struct {
	cc grpc.ClientConnInterface
}

// NewLookupClient creates a client over the connection.
func NewLookupClient(cc grpc.ClientConnInterface) *LookupClient {
	return &LookupClient{cc: cc}
}

// Lookup resolves the name on the remote service.
// Errors are grpc status errors, the message is the one for the user.
func (c *LookupClient) Lookup(ctx context.Context, name string, opts ...grpc.CallOption) (pokemon.Pokemon, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, lookupFullMethod, wrapperspb.String(name), out, opts...); err != nil {
		return pokemon.Pokemon{}, err
	}

	fields := out.GetFields()
	id := fields["id"].GetNumberValue()
	if id <= 0 {
		return pokemon.Pokemon{}, fmt.Errorf("invalid id on the lookup response: %v", id)
	}

	return pokemon.Pokemon{
		ID:        int(id),
		Name:      fields["name"].GetStringValue(),
		SpriteURL: fields["spriteUrl"].GetStringValue(),
	}, nil
}
