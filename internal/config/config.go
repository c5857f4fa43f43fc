package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/typerace/config.yaml",
	"/etc/typerace/config.yml",
}

// ConfigPathEnvVar overrides the config file path
const ConfigPathEnvVar = "TYPERACE_CONFIG"

// envPrefix namespaces the environment variable overrides
const envPrefix = "TYPERACE_"

// Config is the full application configuration
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	Auth    AuthConfig    `koanf:"auth"`
	Room    RoomConfig    `koanf:"room"`
	Game    GameConfig    `koanf:"game"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// AllowedOrigins lists browser origins permitted to open websocket
	// connections; "*" allows any origin
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// StorageConfig holds session store settings
type StorageConfig struct {
	// Type selects the backend: "memory" or "redis"
	Type         string        `koanf:"type"`
	RedisURL     string        `koanf:"redis_url"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	RoomTTL      time.Duration `koanf:"room_ttl"`
}

// AuthConfig holds token verification settings
type AuthConfig struct {
	Secret        string        `koanf:"secret"`
	TokenDuration time.Duration `koanf:"token_duration"`
}

// RoomConfig holds room behavior settings
type RoomConfig struct {
	MaxPlayers              int  `koanf:"max_players"`
	RequireCreatorOnDestroy bool `koanf:"require_creator_on_destroy"`
}

// GameConfig holds race timing settings
type GameConfig struct {
	CountdownDelay time.Duration `koanf:"countdown_delay"`
	ResultsDelay   time.Duration `koanf:"results_delay"`
	ParagraphsPath string        `koanf:"paragraphs_path"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `koanf:"level"`
	// Format is one of json, text
	Format string `koanf:"format"`
}

// defaultConfig returns a Config with all defaults applied. Defaults
// load first, then the config file, then environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"http://localhost:4200"},
		},
		Storage: StorageConfig{
			Type:         "memory",
			RedisURL:     "redis://localhost:6379",
			PoolSize:     10,
			MinIdleConns: 2,
			RoomTTL:      24 * time.Hour,
		},
		Auth: AuthConfig{
			Secret:        "",
			TokenDuration: 24 * time.Hour,
		},
		Room: RoomConfig{
			MaxPlayers:              5,
			RequireCreatorOnDestroy: true,
		},
		Game: GameConfig{
			CountdownDelay: 10 * time.Second,
			ResultsDelay:   5 * time.Second,
			ParagraphsPath: "data/paragraphs.txt",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional config
// file, and TYPERACE_* environment variables, in increasing priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// TYPERACE_SERVER_PORT -> server.port
	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Slice values arrive from env as comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envTransform maps TYPERACE_SECTION_SOME_KEY onto section.some_key.
// Only the first underscore separates the section from the key, since
// key names themselves contain underscores.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 {
		return s
	}
	return parts[0] + "." + parts[1]
}

// sliceFields are the config keys holding string slices, which env
// overrides supply as comma-separated values
var sliceFields = []string{
	"server.allowed_origins",
}

// processSliceFields splits comma-separated string values into slices
// so env overrides unmarshal cleanly
func processSliceFields(k *koanf.Koanf) error {
	for _, key := range sliceFields {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(key, values); err != nil {
			return err
		}
	}
	return nil
}

// findConfigFile locates the config file, honoring the env override
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Validate checks the configuration for values the application cannot
// run with
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("auth.secret is required (TYPERACE_AUTH_SECRET)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Storage.Type != "memory" && c.Storage.Type != "redis" {
		return fmt.Errorf("storage.type must be memory or redis, got %q", c.Storage.Type)
	}
	if c.Storage.Type == "redis" && c.Storage.RedisURL == "" {
		return errors.New("storage.redis_url is required when storage.type is redis")
	}
	if c.Room.MaxPlayers <= 0 {
		return fmt.Errorf("room.max_players must be positive, got %d", c.Room.MaxPlayers)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
