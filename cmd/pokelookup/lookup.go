package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	grpcapi "pokelookup/api/grpc"
	"pokelookup/api/modules"
	lookupservice "pokelookup/api/services/lookup"
	"pokelookup/pkg/models/pokemon"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

var (
	lookupJSON    bool
	lookupRemote  string
	lookupTimeout time.Duration
)

// lookupCmd resolves a single name
var lookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Resolve a pokémon by name",
	Long: `Resolves the name with a case insensitive partial match and prints
the id, the canonical name and the artwork URL.

Examples:
  pokelookup lookup pikachu
  pokelookup lookup "mr. mime" --json
  pokelookup lookup ditto --remote localhost:50051`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print the result as JSON")
	lookupCmd.Flags().StringVar(&lookupRemote, "remote", "", "address of a pokelookup gRPC server to use instead of the PokeAPI")
	lookupCmd.Flags().DurationVar(&lookupTimeout, "timeout", 30*time.Second, "timeout for the whole lookup")
}

func runLookup(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(cmd.Context(), lookupTimeout)
	defer cancel()

	var (
		result pokemon.Pokemon
		err    error
	)
	if lookupRemote != "" {
		result, err = lookupOnRemote(ctx, name)
	} else {
		gateway := lookupservice.NewGateway(&lookupservice.GatewayDeps{
			Lookup: modules.NewLookupService(cfg, log()),
			Log:    log(),
		})
		result, err = gateway.Lookup(ctx, lookupservice.Request{Source: "cli", Name: name})
	}
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), result, lookupJSON)
}

func lookupOnRemote(ctx context.Context, name string) (pokemon.Pokemon, error) {
	conn, err := grpc.NewClient(lookupRemote, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return pokemon.Pokemon{}, fmt.Errorf("couldn't connect to %s: %w", lookupRemote, err)
	}
	defer conn.Close()

	result, err := grpcapi.NewLookupClient(conn).Lookup(ctx, name)
	if err != nil {
		// Only the message is meant for the user.
		return pokemon.Pokemon{}, errors.New(status.Convert(err).Message())
	}
	return result, nil
}

func printResult(w io.Writer, result pokemon.Pokemon, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	_, err := fmt.Fprintf(w, "#%d %s\n%s\n", result.ID, result.Name, result.SpriteURL)
	return err
}
