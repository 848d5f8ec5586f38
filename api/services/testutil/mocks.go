package testutil

import (
	"context"
	"testing"
	"time"

	"pokelookup/pkg/database/models"
	"pokelookup/pkg/models/pokemon"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// Assert the expectations of all mocks.
func VerifyAllMocks(t *testing.T, mocks ...any) {
	t.Helper()

	for _, m := range mocks {
		if mockObj, ok := m.(interface{ AssertExpectations(mock.TestingT) bool }); ok {
			mockObj.AssertExpectations(t)
		}
	}
}

// ============================================================================
// Mock implementations used on the lookup service tests.
// ============================================================================

// Species lookup mock implementation.
type MockSpeciesLookup struct {
	mock.Mock
}

func (m *MockSpeciesLookup) ResolveSpecies(ctx context.Context, name string) (pokemon.SpeciesMatch, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(pokemon.SpeciesMatch), args.Error(1)
}

// Artwork lookup mock implementation.
type MockArtworkLookup struct {
	mock.Mock
}

func (m *MockArtworkLookup) ResolveArtwork(ctx context.Context, id int) string {
	args := m.Called(ctx, id)
	return args.String(0)
}

// Looker mock implementation, stands in for the whole lookup service.
type MockLooker struct {
	mock.Mock
}

func (m *MockLooker) Lookup(ctx context.Context, rawName string) (pokemon.Pokemon, error) {
	args := m.Called(ctx, rawName)
	return args.Get(0).(pokemon.Pokemon), args.Error(1)
}

// Throttle mock implementation.
type MockThrottle struct {
	mock.Mock
}

func (m *MockThrottle) Allow(ctx context.Context, name string) (time.Duration, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(time.Duration), args.Error(1)
}

// Recorder mock implementation.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordLookup(ctx context.Context, event *models.LookupEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// ============================================================================
// Mock implementations used on the throttle tests.
// ============================================================================

// Redis client mock implementation.
type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.BoolCmd)
}

func (m *MockRedisClient) TTL(ctx context.Context, key string) *redis.DurationCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.DurationCmd)
}
