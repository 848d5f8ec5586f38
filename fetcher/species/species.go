// Package species resolves a free text name into a pokemon species using the graph service.
package species

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pokelookup/pkg/models/pokemon"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"
)

var (
	// ErrNoMatch is returned when the query matched no species.
	ErrNoMatch = errors.New("species: no match")

	// ErrMalformedResponse is returned when the response misses the expected fields.
	ErrMalformedResponse = errors.New("species: malformed response")
)

// GraphQLRunner runs a graphql request, decoding the data field into resp.
type GraphQLRunner interface {
	Run(ctx context.Context, req *graphql.Request, resp interface{}) error
}

// Resolver queries the graph service for species.
type Resolver struct {
	client GraphQLRunner
	log    *zap.Logger
}

// ResolverDeps is the dependency list for the species resolver.
type ResolverDeps struct {
	Client GraphQLRunner
	Log    *zap.Logger
}

// NewResolver creates a species resolver.
func NewResolver(deps *ResolverDeps) *Resolver {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		client: deps.Client,
		log:    log.Named("species"),
	}
}

// NewGraphQLClient creates the graph service client over the given http client.
func NewGraphQLClient(endpoint string, httpClient *http.Client, log *zap.Logger) *graphql.Client {
	client := graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient))
	if log != nil {
		client.Log = func(s string) { log.Debug(s) }
	}
	return client
}

// ResolveSpecies returns the first species whose name contains the given one.
// The name must already be trimmed and non empty.
func (r *Resolver) ResolveSpecies(ctx context.Context, name string) (pokemon.SpeciesMatch, error) {
	normalized := strings.ToLower(name)

	req := graphql.NewRequest(getPokemonByName)
	req.Var("name", normalized)

	var result getPokemonResult
	if err := r.client.Run(ctx, req, &result); err != nil {
		return pokemon.SpeciesMatch{}, fmt.Errorf("species query for %q failed: %w", normalized, err)
	}

	if result.PokemonSpecies == nil {
		return pokemon.SpeciesMatch{}, fmt.Errorf("%w: missing pokemonspecies", ErrMalformedResponse)
	}

	matches := *result.PokemonSpecies
	if len(matches) == 0 {
		return pokemon.SpeciesMatch{}, fmt.Errorf("%w for %q", ErrNoMatch, normalized)
	}

	// The query is limited to one, anything after the first is ignored.
	if len(matches) > 1 {
		r.log.Warn("more than one species returned, using the first",
			zap.String("name", normalized),
			zap.Int("count", len(matches)))
	}

	first := matches[0]
	if first.ID == nil || *first.ID <= 0 {
		return pokemon.SpeciesMatch{}, fmt.Errorf("%w: missing or invalid id", ErrMalformedResponse)
	}
	if first.Name == nil || *first.Name == "" {
		return pokemon.SpeciesMatch{}, fmt.Errorf("%w: missing name", ErrMalformedResponse)
	}

	r.log.Debug("species resolved",
		zap.String("query", normalized),
		zap.Int("id", *first.ID),
		zap.String("name", *first.Name))

	return pokemon.SpeciesMatch{ID: *first.ID, Name: *first.Name}, nil
}
