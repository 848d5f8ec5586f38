package lookupservice

import (
	"context"
	"errors"
	"strings"

	"pokelookup/fetcher/species"
	"pokelookup/pkg/messages"
	"pokelookup/pkg/models/pokemon"

	"go.uber.org/zap"
)

var (
	// ErrInvalidName is returned for empty or blank names, before any request.
	ErrInvalidName = errors.New(messages.InvalidName)

	// ErrNotFound is returned for every failure of the species lookup.
	ErrNotFound = errors.New(messages.NotFound)
)

// SpeciesLookup maps a name to a species.
type SpeciesLookup interface {
	ResolveSpecies(ctx context.Context, name string) (pokemon.SpeciesMatch, error)
}

// ArtworkLookup maps a species id to an image URL. It can't fail.
type ArtworkLookup interface {
	ResolveArtwork(ctx context.Context, id int) string
}

// LookupService runs the species and artwork lookups in sequence.
// It has no mutable state and is safe for concurrent use.
type LookupService struct {
	species SpeciesLookup
	artwork ArtworkLookup
	log     *zap.Logger
}

// LookupServiceDeps is the dependency list for the lookup service.
type LookupServiceDeps struct {
	Species SpeciesLookup
	Artwork ArtworkLookup
	Log     *zap.Logger
}

// NewLookupService creates a lookup service.
func NewLookupService(deps *LookupServiceDeps) *LookupService {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &LookupService{
		species: deps.Species,
		artwork: deps.Artwork,
		log:     log.Named("lookup"),
	}
}

// Lookup resolves the name into a displayable pokemon.
// Errors are ErrInvalidName or ErrNotFound, both carry the message for the user.
func (ls *LookupService) Lookup(ctx context.Context, rawName string) (pokemon.Pokemon, error) {
	log := ls.log.With(zap.String("input", rawName))
	ls.enter(log, StageValidating)

	name := strings.TrimSpace(rawName)
	if name == "" {
		return pokemon.Pokemon{}, ErrInvalidName
	}

	ls.enter(log, StageResolvingSpecies)
	match, err := ls.species.ResolveSpecies(ctx, name)
	if err != nil {
		// The upstream detail stays in the logs, the caller only sees the fixed message.
		if errors.Is(err, species.ErrNoMatch) {
			log.Warn("no species matched", zap.Error(err))
		} else {
			log.Error("species lookup failed", zap.Error(err))
		}
		ls.enter(log, StageFailed)
		return pokemon.Pokemon{}, ErrNotFound
	}

	ls.enter(log, StageResolvingArtwork)
	spriteURL := ls.artwork.ResolveArtwork(ctx, match.ID)

	ls.enter(log, StageDone)
	return pokemon.Pokemon{
		ID:        match.ID,
		Name:      match.Name,
		SpriteURL: spriteURL,
	}, nil
}

func (ls *LookupService) enter(log *zap.Logger, stage Stage) {
	log.Debug("lookup stage", zap.Stringer("stage", stage))
}
