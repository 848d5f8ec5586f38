package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PokeAPI configuration, the two upstream services and the fallback.
type PokeAPIConfiguration struct {
	GraphQLURL       string        `yaml:"graphql_url"`
	RestBaseURL      string        `yaml:"rest_base_url"`
	FallbackTemplate string        `yaml:"fallback_template"`
	Timeout          time.Duration `yaml:"timeout"`
}

// Redis configuration struct.
type RedisConfiguration struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
}

// Addr returns the host:port pair of the redis server.
func (r RedisConfiguration) Addr() string {
	return net.JoinHostPort(r.Host, r.Port)
}

// Database configuration struct.
type DatabaseConfiguration struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// Bucket configuration used for shipping the logs.
type BucketConfiguration struct {
	Endpoint     string `yaml:"endpoint"`
	Region       string `yaml:"region"`
	AccessKey    string `yaml:"access_key"`
	AccessSecret string `yaml:"access_secret"`
	LogBucket    string `yaml:"log_bucket"`
}

// Server addresses.
type ServerConfiguration struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
}

// Throttle configuration for repeated lookups.
type ThrottleConfiguration struct {
	Window time.Duration `yaml:"window"`
}

// Log configuration.
type LogConfiguration struct {
	Level          string        `yaml:"level"`
	UploadInterval time.Duration `yaml:"upload_interval"`
}

// Config is the full application configuration.
type Config struct {
	PokeAPI  PokeAPIConfiguration  `yaml:"pokeapi"`
	Redis    RedisConfiguration    `yaml:"redis"`
	Database DatabaseConfiguration `yaml:"database"`
	Bucket   BucketConfiguration   `yaml:"bucket"`
	Server   ServerConfiguration   `yaml:"server"`
	Throttle ThrottleConfiguration `yaml:"throttle"`
	Log      LogConfiguration      `yaml:"log"`
}

// Default returns a configuration pointing at the public PokeAPI.
func Default() *Config {
	return &Config{
		PokeAPI: PokeAPIConfiguration{
			GraphQLURL:       "https://graphql.pokeapi.co/v1beta2",
			RestBaseURL:      "https://pokeapi.co/api/v2",
			FallbackTemplate: "https://raw.githubusercontent.com/PokeAPI/sprites/master/pokemon/%d.png",
			Timeout:          10 * time.Second,
		},
		Redis: RedisConfiguration{
			Host: "localhost",
			Port: "6379",
		},
		Server: ServerConfiguration{
			HTTPAddr: ":8080",
			GRPCAddr: ":50051",
		},
		Throttle: ThrottleConfiguration{
			Window: 2 * time.Second,
		},
		Log: LogConfiguration{
			Level:          "info",
			UploadInterval: time.Hour,
		},
	}
}

// Load the configuration.
// Order: defaults, then the optional YAML file, then the environment.
func Load() (*Config, error) {
	// Load the .env if not running on Docker, a missing file is fine.
	if os.Getenv("ENVIRONMENT") != "docker" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("couldn't load the .env file: %w", err)
		}
	}

	cfg := Default()

	if path := os.Getenv("POKELOOKUP_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Overlay the values of a YAML file on the current configuration.
func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("couldn't read the config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("couldn't parse the config file %s: %w", path, err)
	}
	return nil
}

// Apply the environment variables that are set.
func (c *Config) loadEnv() error {
	setString(&c.PokeAPI.GraphQLURL, "POKEAPI_GRAPHQL_URL")
	setString(&c.PokeAPI.RestBaseURL, "POKEAPI_REST_URL")
	setString(&c.PokeAPI.FallbackTemplate, "POKEAPI_FALLBACK_TEMPLATE")

	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Redis.Port, "REDIS_PORT")
	setString(&c.Redis.Password, "REDIS_PASSWORD")

	setString(&c.Database.DSN, "POSTGRES_DSN")

	setString(&c.Bucket.Endpoint, "BUCKET_ENDPOINT")
	setString(&c.Bucket.Region, "BUCKET_REGION")
	setString(&c.Bucket.AccessKey, "BUCKET_ACCESS_KEY")
	setString(&c.Bucket.AccessSecret, "BUCKET_ACCESS_SECRET")
	setString(&c.Bucket.LogBucket, "BUCKET_LOG_BUCKET")

	setString(&c.Server.HTTPAddr, "HTTP_ADDR")
	setString(&c.Server.GRPCAddr, "GRPC_ADDR")

	setString(&c.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("DATABASE_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DATABASE_ENABLED %q: %w", v, err)
		}
		c.Database.Enabled = enabled
	}

	durations := map[string]*time.Duration{
		"POKEAPI_TIMEOUT":     &c.PokeAPI.Timeout,
		"THROTTLE_WINDOW":     &c.Throttle.Window,
		"LOG_UPLOAD_INTERVAL": &c.Log.UploadInterval,
	}
	for key, target := range durations {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*target = d
	}

	return nil
}

// Validate checks the values the pipeline can't run without.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"graphql url":   c.PokeAPI.GraphQLURL,
		"rest base url": c.PokeAPI.RestBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}

	if strings.Count(c.PokeAPI.FallbackTemplate, "%d") != 1 {
		return fmt.Errorf("fallback template must contain exactly one %%d: %q", c.PokeAPI.FallbackTemplate)
	}

	if c.Database.Enabled && c.Database.DSN == "" {
		return errors.New("database enabled without a dsn")
	}

	if c.BucketEnabled() && c.Log.UploadInterval <= 0 {
		return fmt.Errorf("log upload interval must be positive: %s", c.Log.UploadInterval)
	}

	return nil
}

// BucketEnabled reports if the logs can be shipped.
func (c *Config) BucketEnabled() bool {
	return c.Bucket.LogBucket != "" && c.Bucket.Endpoint != ""
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
