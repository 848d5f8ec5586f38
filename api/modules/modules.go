package modules

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	grpcapi "pokelookup/api/grpc"
	"pokelookup/api/handlers"
	"pokelookup/api/repositories"
	"pokelookup/api/routes"
	lookupservice "pokelookup/api/services/lookup"
	"pokelookup/api/throttle"
	"pokelookup/fetcher/artwork"
	"pokelookup/fetcher/species"
	"pokelookup/pkg/config"
	"pokelookup/pkg/database"
	"pokelookup/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// Module containing everything the servers need.
type Module struct {
	Service    *lookupservice.LookupService
	Gateway    *lookupservice.Gateway
	Router     *routes.Router
	GRPCServer *grpc.Server

	closers []func() error
}

// NewLookupService wires the resolvers into the lookup service.
func NewLookupService(cfg *config.Config, log *zap.Logger) *lookupservice.LookupService {
	httpClient := &http.Client{Timeout: cfg.PokeAPI.Timeout}

	speciesResolver := species.NewResolver(&species.ResolverDeps{
		Client: species.NewGraphQLClient(cfg.PokeAPI.GraphQLURL, httpClient, log.Named("graphql")),
		Log:    log,
	})
	artworkResolver := artwork.NewResolver(&artwork.ResolverDeps{
		Client:           httpClient,
		BaseURL:          cfg.PokeAPI.RestBaseURL,
		FallbackTemplate: cfg.PokeAPI.FallbackTemplate,
		Log:              log,
	})

	return lookupservice.NewLookupService(&lookupservice.LookupServiceDeps{
		Species: speciesResolver,
		Artwork: artworkResolver,
		Log:     log,
	})
}

// Create a new module with the lookup service, the optional throttle and audit trail, and both servers.
func NewModule(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Module, error) {
	m := &Module{
		Service: NewLookupService(cfg, log),
	}

	gatewayDeps := &lookupservice.GatewayDeps{
		Lookup: m.Service,
		Log:    log,
	}

	// The throttle is best effort, the API works without redis.
	if cfg.Throttle.Window > 0 {
		redisClient, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, lookups won't be throttled", zap.Error(err))
		} else {
			m.closers = append(m.closers, redisClient.Close)
			gatewayDeps.Throttle = throttle.NewRedisThrottle(redisClient, cfg.Throttle.Window)
		}
	}

	// The audit trail was explicitly asked for, so failing to start it is fatal.
	if cfg.Database.Enabled {
		recorder, err := m.openRecorder(cfg, log)
		if err != nil {
			m.Close()
			return nil, err
		}
		gatewayDeps.Recorder = recorder
	}

	m.Gateway = lookupservice.NewGateway(gatewayDeps)

	engine := gin.New()
	engine.Use(gin.Recovery())
	m.Router = routes.NewRouter(engine)
	m.Router.SetupRoutes(handlers.NewLookupHandler(m.Gateway))

	m.GRPCServer = grpcapi.NewServer(m.Gateway, log)

	return m, nil
}

func (m *Module) openRecorder(cfg *config.Config, log *zap.Logger) (repositories.LookupRepository, error) {
	db, err := database.NewConnection(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("couldn't get raw db connection: %w", err)
	}
	m.closers = append(m.closers, sqlDB.Close)

	if err := database.RunMigrations(sqlDB, log); err != nil {
		return nil, err
	}

	return repositories.NewLookupRepository(db)
}

// Close releases the connections opened by the module.
func (m *Module) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i]())
	}
	m.closers = nil
	return errors.Join(errs...)
}
