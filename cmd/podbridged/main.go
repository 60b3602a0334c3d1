package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"

	"podbridge/internal/catalog"
	"podbridge/internal/config"
	"podbridge/internal/ipc"
	"podbridge/internal/localengine"
	"podbridge/internal/logging"
	"podbridge/internal/pipeline"
	"podbridge/internal/projection"
	"podbridge/internal/protocol"
	"podbridge/internal/session"
	"podbridge/internal/voicesearch"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	logger, err := logging.NewWithFile(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, cfg.Paths.LogDir)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "podbridged.lock")
	lock := flock.New(lockPath)
	held, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !held {
		return fmt.Errorf("another podbridged instance is already running (lock %s)", lockPath)
	}
	defer lock.Unlock() //nolint:errcheck

	store, err := catalog.Open(cfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	engine := localengine.New(store, cfg, logger)
	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer engine.Close()

	state := protocol.NewSessionState()
	pipe := pipeline.New(pipeline.Options{
		Engine:         engine,
		Library:        store,
		Sink:           state,
		Settings:       projection.SettingsFromConfig(cfg),
		Device:         projection.DeviceFromConfig(cfg),
		Logger:         logger,
		PublishRetries: cfg.Session.PublishRetries,
	})
	bridge := session.New(session.Options{
		Engine:   engine,
		Library:  store,
		Resolver: voicesearch.New(engine, store, state, logger),
		State:    state,
		Pipeline: pipe,
		Config:   cfg,
		Logger:   logger,
	})
	if err := bridge.Start(ctx); err != nil {
		return fmt.Errorf("start bridge: %w", err)
	}
	defer bridge.Close()

	ipcServer, err := ipc.NewServer(ctx, cfg.Paths.SocketPath, bridge, state, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	logger.Info("podbridged running",
		logging.String("socket", cfg.Paths.SocketPath),
		logging.String("catalog", store.Path()),
	)

	<-ctx.Done()
	logger.Info("podbridged shutting down")
	return nil
}
