package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "docker")
	t.Setenv("POKELOOKUP_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://graphql.pokeapi.co/v1beta2", cfg.PokeAPI.GraphQLURL)
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.PokeAPI.RestBaseURL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.BucketEnabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "docker")
	t.Setenv("POKELOOKUP_CONFIG", "")
	t.Setenv("POKEAPI_REST_URL", "http://localhost:9000/api/v2")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("THROTTLE_WINDOW", "5s")
	t.Setenv("DATABASE_ENABLED", "true")
	t.Setenv("POSTGRES_DSN", "host=db user=test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/api/v2", cfg.PokeAPI.RestBaseURL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr())
	assert.Equal(t, 5*time.Second, cfg.Throttle.Window)
	assert.True(t, cfg.Database.Enabled)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
pokeapi:
  graphql_url: http://file-graph:8080/v1
  timeout: 3s
server:
  http_addr: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ENVIRONMENT", "docker")
	t.Setenv("POKELOOKUP_CONFIG", path)
	t.Setenv("HTTP_ADDR", ":7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://file-graph:8080/v1", cfg.PokeAPI.GraphQLURL)
	assert.Equal(t, 3*time.Second, cfg.PokeAPI.Timeout)
	// The environment wins over the file.
	assert.Equal(t, ":7070", cfg.Server.HTTPAddr)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("ENVIRONMENT", "docker")
	t.Setenv("POKELOOKUP_CONFIG", "")
	t.Setenv("POKEAPI_TIMEOUT", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "POKEAPI_TIMEOUT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "relative graphql url",
			mutate:  func(c *Config) { c.PokeAPI.GraphQLURL = "/graphql" },
			wantErr: "invalid graphql url",
		},
		{
			name:    "template without verb",
			mutate:  func(c *Config) { c.PokeAPI.FallbackTemplate = "https://example.com/sprite.png" },
			wantErr: "fallback template",
		},
		{
			name:    "database without dsn",
			mutate:  func(c *Config) { c.Database.Enabled = true },
			wantErr: "dsn",
		},
		{
			name: "bucket without upload interval",
			mutate: func(c *Config) {
				c.Bucket.Endpoint = "http://localhost:9000"
				c.Bucket.LogBucket = "logs"
				c.Log.UploadInterval = 0
			},
			wantErr: "upload interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRedisAddr(t *testing.T) {
	assert.Equal(t, "redis:6379", RedisConfiguration{Host: "redis", Port: "6379"}.Addr())
	assert.Equal(t, "[::1]:6379", RedisConfiguration{Host: "::1", Port: "6379"}.Addr())
}
