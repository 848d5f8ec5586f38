// Package artwork finds the image of a pokemon on the REST document service.
package artwork

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pokelookup/fetcher/requests"
	"pokelookup/pkg/models/pokemon"

	"go.uber.org/zap"
)

// Static sprite repository used when the document has no usable image.
const DefaultFallbackTemplate = "https://raw.githubusercontent.com/PokeAPI/sprites/master/pokemon/%d.png"

var errNoSprite = errors.New("artwork: document has no sprite")

// Resolver fetches the pokemon documents.
type Resolver struct {
	client           *http.Client
	baseURL          string
	fallbackTemplate string
	log              *zap.Logger
}

// ResolverDeps is the dependency list for the artwork resolver.
type ResolverDeps struct {
	Client           *http.Client
	BaseURL          string
	FallbackTemplate string
	Log              *zap.Logger
}

// NewResolver creates an artwork resolver.
func NewResolver(deps *ResolverDeps) *Resolver {
	r := &Resolver{
		client:           deps.Client,
		baseURL:          strings.TrimSuffix(deps.BaseURL, "/"),
		fallbackTemplate: deps.FallbackTemplate,
		log:              deps.Log,
	}
	if r.client == nil {
		r.client = http.DefaultClient
	}
	if r.fallbackTemplate == "" {
		r.fallbackTemplate = DefaultFallbackTemplate
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	r.log = r.log.Named("artwork")
	return r
}

// ResolveArtwork returns the best image for the pokemon.
// Every failure ends on the fallback URL, so the result is always usable.
func (r *Resolver) ResolveArtwork(ctx context.Context, id int) string {
	spriteURL, err := r.fetchSprite(ctx, id)
	if err != nil {
		r.log.Warn("couldn't get the artwork, using the fallback", zap.Int("id", id), zap.Error(err))
		return r.FallbackURL(id)
	}
	return spriteURL
}

// FallbackURL formats the static sprite URL for the id.
func (r *Resolver) FallbackURL(id int) string {
	return fmt.Sprintf(r.fallbackTemplate, id)
}

// Fetch the document and pick the sprite by preference.
func (r *Resolver) fetchSprite(ctx context.Context, id int) (string, error) {
	documentURL := r.baseURL + "/pokemon/" + strconv.Itoa(id)

	var document pokemon.ArtworkDocument
	if err := requests.GetJSON(ctx, r.client, documentURL, &document); err != nil {
		return "", err
	}

	for _, candidate := range []string{document.OfficialArtworkURL(), document.Sprites.FrontDefault} {
		if isUsableURL(candidate) {
			return candidate, nil
		}
	}

	return "", errNoSprite
}

// Only absolute URLs are handed to the caller.
func isUsableURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
