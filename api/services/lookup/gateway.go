package lookupservice

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"pokelookup/pkg/database/models"
	"pokelookup/pkg/messages"
	"pokelookup/pkg/models/pokemon"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrThrottled is matched by the errors of rejected repeated lookups.
var ErrThrottled = errors.New(messages.OperationInProgress)

// ThrottledError carries how long the caller should wait.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return messages.OperationInProgress
}

func (e *ThrottledError) Unwrap() error {
	return ErrThrottled
}

// Looker is anything that resolves names, usually the LookupService.
type Looker interface {
	Lookup(ctx context.Context, rawName string) (pokemon.Pokemon, error)
}

// Throttle limits repeated lookups of the same name.
// A positive duration means the lookup must be rejected.
type Throttle interface {
	Allow(ctx context.Context, name string) (time.Duration, error)
}

// Recorder stores the audit trail of the lookups.
type Recorder interface {
	RecordLookup(ctx context.Context, event *models.LookupEvent) error
}

// Request is a single lookup coming from one of the API surfaces.
type Request struct {
	ID     uuid.UUID
	Source string
	Name   string
}

// Gateway wraps the lookup for the API surfaces, adding the throttle and the audit trail.
// Neither of them ever changes the outcome of an allowed lookup.
type Gateway struct {
	lookup        Looker
	throttle      Throttle
	recorder      Recorder
	recordTimeout time.Duration
	log           *zap.Logger
}

// GatewayDeps is the dependency list for the gateway. Throttle and Recorder are optional.
type GatewayDeps struct {
	Lookup   Looker
	Throttle Throttle
	Recorder Recorder
	Log      *zap.Logger
}

// NewGateway creates a gateway.
func NewGateway(deps *GatewayDeps) *Gateway {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		lookup:        deps.Lookup,
		throttle:      deps.Throttle,
		recorder:      deps.Recorder,
		recordTimeout: 2 * time.Second,
		log:           log.Named("gateway"),
	}
}

// Lookup runs a throttled and audited lookup.
func (g *Gateway) Lookup(ctx context.Context, req Request) (pokemon.Pokemon, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	log := g.log.With(zap.Stringer("request_id", req.ID), zap.String("source", req.Source))
	start := time.Now()

	name := strings.TrimSpace(req.Name)
	if name != "" && g.throttle != nil {
		wait, err := g.throttle.Allow(ctx, name)
		switch {
		case err != nil:
			log.Warn("throttle unavailable, allowing the lookup", zap.Error(err))
		case wait > 0:
			log.Info("lookup throttled", zap.String("name", name), zap.Duration("retry_after", wait))
			return pokemon.Pokemon{}, &ThrottledError{RetryAfter: wait}
		}
	}

	result, err := g.lookup.Lookup(ctx, req.Name)
	g.record(ctx, log, req, name, result, err, time.Since(start))
	return result, err
}

// Store the audit event, failures are only logged.
func (g *Gateway) record(ctx context.Context, log *zap.Logger, req Request, name string, result pokemon.Pokemon, lookupErr error, elapsed time.Duration) {
	if g.recorder == nil {
		return
	}

	event := &models.LookupEvent{
		RequestID:  req.ID,
		Query:      truncate(name, 255),
		Outcome:    outcomeOf(lookupErr),
		DurationMs: elapsed.Milliseconds(),
		Source:     req.Source,
	}
	if lookupErr == nil {
		id := result.ID
		event.SpeciesID = &id
		event.SpriteURL = result.SpriteURL
	}

	// The write outlives a canceled request, but not by much.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.recordTimeout)
	defer cancel()

	if err := g.recorder.RecordLookup(recordCtx, event); err != nil {
		log.Error("couldn't record the lookup", zap.Error(err))
	}
}

func outcomeOf(err error) models.LookupOutcome {
	switch {
	case err == nil:
		return models.OutcomeOK
	case errors.Is(err, ErrInvalidName):
		return models.OutcomeInvalid
	default:
		return models.OutcomeNotFound
	}
}

// Cut the string to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
