package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"pokelookup/api/modules"
	"pokelookup/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Time given to the servers to finish the running requests.
const shutdownTimeout = 10 * time.Second

// serveCmd runs the HTTP and gRPC servers
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lookups over HTTP and gRPC",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	module, err := modules.NewModule(ctx, cfg, log())
	if err != nil {
		return fmt.Errorf("couldn't start the module: %w", err)
	}
	defer module.Close()

	if cfg.BucketEnabled() {
		s, err := scheduler.Start(appLogger, cfg.Log.UploadInterval, log())
		if err != nil {
			return err
		}
		defer s.Shutdown()
	}

	grpcListener, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("couldn't listen on %s: %w", cfg.Server.GRPCAddr, err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           module.Router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log().Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log().Info("grpc server listening", zap.String("addr", cfg.Server.GRPCAddr))
		if err := module.GRPCServer.Serve(grpcListener); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log().Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		module.GRPCServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
