package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/typeracehq/typerace/internal/dependencies/clock"
	"github.com/typeracehq/typerace/internal/dependencies/random"
	"github.com/typeracehq/typerace/internal/gateway"
	"github.com/typeracehq/typerace/internal/services/auth"
	"github.com/typeracehq/typerace/internal/services/paragraph"
	"github.com/typeracehq/typerace/internal/services/room"
	"github.com/typeracehq/typerace/internal/storage"
	"github.com/typeracehq/typerace/internal/storage/memory"
	redisstorage "github.com/typeracehq/typerace/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	RoomController   *room.Controller
	ParagraphService *paragraph.Service
	AuthService      *auth.Service
	Hub              *gateway.Hub
	Gateway          *gateway.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// AuthConfig holds auth verification settings
	AuthConfig auth.Config
	// RoomConfig holds room behavior settings (optional)
	RoomConfig *room.Config
	// GatewayConfig holds gateway timing settings (optional)
	GatewayConfig *gateway.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	roomCfg := room.DefaultConfig()
	if cfg.RoomConfig != nil {
		roomCfg = *cfg.RoomConfig
	}
	gatewayCfg := gateway.DefaultConfig()
	if cfg.GatewayConfig != nil {
		gatewayCfg = *cfg.GatewayConfig
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.AuthConfig, roomCfg, gatewayCfg, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, roomCfg room.Config, gatewayCfg gateway.Config, logger *slog.Logger) (*App, error) {
	authService, err := auth.New(authCfg)
	if err != nil {
		return nil, err
	}

	roomController := room.NewController(store, clk, roomCfg, logger)
	paragraphService := paragraph.New(store, rnd, logger)
	hub := gateway.NewHub(logger)
	gw := gateway.New(roomController, paragraphService, authService, hub, gatewayCfg, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		RoomController:   roomController,
		ParagraphService: paragraphService,
		AuthService:      authService,
		Hub:              hub,
		Gateway:          gw,
	}, nil
}
