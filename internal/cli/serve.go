package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/typeracehq/typerace/internal/api"
	"github.com/typeracehq/typerace/internal/config"
	"github.com/typeracehq/typerace/internal/factory"
	"github.com/typeracehq/typerace/internal/gateway"
	"github.com/typeracehq/typerace/internal/services/auth"
	"github.com/typeracehq/typerace/internal/services/room"
	redisstorage "github.com/typeracehq/typerace/internal/storage/redis"
)

// newServeCmd creates the serve command
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the typing race server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func runServer(cfg *config.Config) error {
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	app, err := factory.New(factoryConfig(cfg, logger))
	if err != nil {
		return err
	}

	// Seed paragraphs if a file is configured; the server can still run
	// without them, races just fail to get content
	if cfg.Game.ParagraphsPath != "" {
		count, err := app.ParagraphService.LoadFromFile(context.Background(), cfg.Game.ParagraphsPath)
		if err != nil {
			logger.Warn("could not load paragraphs",
				slog.String("path", cfg.Game.ParagraphsPath),
				slog.Any("error", err))
		} else {
			logger.Info("paragraphs ready", slog.Int("count", count))
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		RoomController: app.RoomController,
		Gateway:        app.Gateway,
	})

	server := api.NewServer(router, api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	}
}

// factoryConfig maps the loaded configuration onto factory wiring
func factoryConfig(cfg *config.Config, logger *slog.Logger) factory.Config {
	fc := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		AuthConfig: auth.Config{
			Secret:        cfg.Auth.Secret,
			TokenDuration: cfg.Auth.TokenDuration,
		},
		RoomConfig: &room.Config{
			MaxPlayers:              cfg.Room.MaxPlayers,
			RequireCreatorOnDestroy: cfg.Room.RequireCreatorOnDestroy,
		},
		GatewayConfig: &gateway.Config{
			CountdownDelay: cfg.Game.CountdownDelay,
			ResultsDelay:   cfg.Game.ResultsDelay,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
	}

	if cfg.Storage.Type == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		redisCfg.PoolSize = cfg.Storage.PoolSize
		redisCfg.MinIdleConns = cfg.Storage.MinIdleConns
		redisCfg.RoomTTL = cfg.Storage.RoomTTL
		fc.RedisConfig = &redisCfg
	}

	return fc
}
