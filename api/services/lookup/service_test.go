package lookupservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"pokelookup/api/services/testutil"
	"pokelookup/fetcher/species"
	"pokelookup/pkg/models/pokemon"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const pikachuArtwork = "https://raw.githubusercontent.com/PokeAPI/sprites/master/pokemon/other/official-artwork/25.png"

// Simple test for asserting that everything is fine with the lookup service creation.
func TestNewLookupService(t *testing.T) {
	mockSpecies := new(testutil.MockSpeciesLookup)
	mockArtwork := new(testutil.MockArtworkLookup)

	service := NewLookupService(&LookupServiceDeps{
		Species: mockSpecies,
		Artwork: mockArtwork,
	})
	assert.NotNil(t, service)
	assert.Equal(t, mockSpecies, service.species)
	assert.Equal(t, mockArtwork, service.artwork)
	assert.NotNil(t, service.log)
}

func TestLookup(t *testing.T) {
	type speciesCall struct {
		name   string
		result pokemon.SpeciesMatch
		err    error
	}
	type artworkCall struct {
		id     int
		result string
	}

	tests := []struct {
		name           string
		input          string
		speciesCall    *speciesCall
		artworkCall    *artworkCall
		expectedResult pokemon.Pokemon
		expectedErr    error
	}{
		{
			name:  "pikachu with official artwork",
			input: "pikachu",
			speciesCall: &speciesCall{
				name:   "pikachu",
				result: pokemon.SpeciesMatch{ID: 25, Name: "pikachu"},
			},
			artworkCall: &artworkCall{id: 25, result: pikachuArtwork},
			expectedResult: pokemon.Pokemon{
				ID:        25,
				Name:      "pikachu",
				SpriteURL: pikachuArtwork,
			},
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: "  Pikachu\t",
			speciesCall: &speciesCall{
				name:   "Pikachu",
				result: pokemon.SpeciesMatch{ID: 25, Name: "pikachu"},
			},
			artworkCall: &artworkCall{id: 25, result: pikachuArtwork},
			expectedResult: pokemon.Pokemon{
				ID:        25,
				Name:      "pikachu",
				SpriteURL: pikachuArtwork,
			},
		},
		{
			name:  "ditto with the artwork service down",
			input: "ditto",
			speciesCall: &speciesCall{
				name:   "ditto",
				result: pokemon.SpeciesMatch{ID: 132, Name: "ditto"},
			},
			artworkCall: &artworkCall{id: 132, result: "https://raw.githubusercontent.com/PokeAPI/sprites/master/pokemon/132.png"},
			expectedResult: pokemon.Pokemon{
				ID:        132,
				Name:      "ditto",
				SpriteURL: "https://raw.githubusercontent.com/PokeAPI/sprites/master/pokemon/132.png",
			},
		},
		{
			name:        "empty name",
			input:       "",
			expectedErr: ErrInvalidName,
		},
		{
			name:        "blank name",
			input:       "  ",
			expectedErr: ErrInvalidName,
		},
		{
			name:  "no match",
			input: "zzzznotreal",
			speciesCall: &speciesCall{
				name: "zzzznotreal",
				err:  fmt.Errorf("%w for %q", species.ErrNoMatch, "zzzznotreal"),
			},
			expectedErr: ErrNotFound,
		},
		{
			name:  "malformed payload",
			input: "pikachu",
			speciesCall: &speciesCall{
				name: "pikachu",
				err:  species.ErrMalformedResponse,
			},
			expectedErr: ErrNotFound,
		},
		{
			name:  "transport failure",
			input: "pikachu",
			speciesCall: &speciesCall{
				name: "pikachu",
				err:  errors.New("dial tcp: connection refused"),
			},
			expectedErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSpecies := new(testutil.MockSpeciesLookup)
			mockArtwork := new(testutil.MockArtworkLookup)

			if tt.speciesCall != nil {
				mockSpecies.On("ResolveSpecies", mock.Anything, tt.speciesCall.name).
					Return(tt.speciesCall.result, tt.speciesCall.err).Once()
			}
			if tt.artworkCall != nil {
				mockArtwork.On("ResolveArtwork", mock.Anything, tt.artworkCall.id).
					Return(tt.artworkCall.result).Once()
			}

			service := NewLookupService(&LookupServiceDeps{
				Species: mockSpecies,
				Artwork: mockArtwork,
			})

			result, err := service.Lookup(context.Background(), tt.input)

			if tt.expectedErr != nil {
				// The error is exactly the sentinel, nothing from upstream leaks.
				assert.Equal(t, tt.expectedErr, err)
				assert.Equal(t, pokemon.Pokemon{}, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedResult, result)
				assert.NotEmpty(t, result.SpriteURL)
			}

			// No network access happens without a species call set.
			if tt.speciesCall == nil {
				mockSpecies.AssertNotCalled(t, "ResolveSpecies", mock.Anything, mock.Anything)
			}
			if tt.artworkCall == nil {
				mockArtwork.AssertNotCalled(t, "ResolveArtwork", mock.Anything, mock.Anything)
			}
			testutil.VerifyAllMocks(t, mockSpecies, mockArtwork)
		})
	}
}

func TestLookupLogLevelOfSpeciesFailures(t *testing.T) {
	tests := []struct {
		name          string
		speciesErr    error
		expectedLevel zapcore.Level
	}{
		{
			name:          "unknown name is a warning",
			speciesErr:    fmt.Errorf("%w for %q", species.ErrNoMatch, "zzzznotreal"),
			expectedLevel: zapcore.WarnLevel,
		},
		{
			name:          "transport failure is an error",
			speciesErr:    errors.New("dial tcp: connection refused"),
			expectedLevel: zapcore.ErrorLevel,
		},
		{
			name:          "malformed payload is an error",
			speciesErr:    species.ErrMalformedResponse,
			expectedLevel: zapcore.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			mockSpecies := new(testutil.MockSpeciesLookup)
			mockSpecies.On("ResolveSpecies", mock.Anything, "zzzznotreal").
				Return(pokemon.SpeciesMatch{}, tt.speciesErr).Once()

			service := NewLookupService(&LookupServiceDeps{
				Species: mockSpecies,
				Artwork: new(testutil.MockArtworkLookup),
				Log:     zap.New(core),
			})

			_, err := service.Lookup(context.Background(), "zzzznotreal")
			assert.Equal(t, ErrNotFound, err)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.expectedLevel, entries[0].Level)
		})
	}
}

func TestLookupErrorMessages(t *testing.T) {
	assert.Equal(t, "enter a valid name", ErrInvalidName.Error())
	assert.Equal(t, "pokémon not found", ErrNotFound.Error())
}

func TestLookupIsIdempotent(t *testing.T) {
	mockSpecies := new(testutil.MockSpeciesLookup)
	mockArtwork := new(testutil.MockArtworkLookup)
	mockSpecies.On("ResolveSpecies", mock.Anything, "pikachu").
		Return(pokemon.SpeciesMatch{ID: 25, Name: "pikachu"}, nil).Twice()
	mockArtwork.On("ResolveArtwork", mock.Anything, 25).Return(pikachuArtwork).Twice()

	service := NewLookupService(&LookupServiceDeps{Species: mockSpecies, Artwork: mockArtwork})

	first, err := service.Lookup(context.Background(), "pikachu")
	require.NoError(t, err)
	second, err := service.Lookup(context.Background(), "pikachu")
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated lookup mismatch (-first +second):\n%s", diff)
	}
	testutil.VerifyAllMocks(t, mockSpecies, mockArtwork)
}

func TestLookupConcurrentCallsAreIndependent(t *testing.T) {
	mockSpecies := new(testutil.MockSpeciesLookup)
	mockArtwork := new(testutil.MockArtworkLookup)

	names := map[string]int{"bulbasaur": 1, "charmander": 4, "squirtle": 7, "pikachu": 25}
	for name, id := range names {
		mockSpecies.On("ResolveSpecies", mock.Anything, name).
			Return(pokemon.SpeciesMatch{ID: id, Name: name}, nil)
		mockArtwork.On("ResolveArtwork", mock.Anything, id).
			Return(fmt.Sprintf("https://sprites.example.com/%d.png", id))
	}

	service := NewLookupService(&LookupServiceDeps{Species: mockSpecies, Artwork: mockArtwork})

	barrier := sync.WaitGroup{}
	barrier.Add(1)
	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		for name, id := range names {
			name, id := name, id
			wg.Add(1)
			go func() {
				defer wg.Done()
				barrier.Wait()
				result, err := service.Lookup(context.Background(), name)
				assert.NoError(t, err)
				assert.Equal(t, pokemon.Pokemon{
					ID:        id,
					Name:      name,
					SpriteURL: fmt.Sprintf("https://sprites.example.com/%d.png", id),
				}, result)
			}()
		}
	}
	barrier.Done()
	wg.Wait()
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "resolving_species", StageResolvingSpecies.String())
	assert.Equal(t, "failed", StageFailed.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
