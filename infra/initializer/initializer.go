package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/amirasaad/debtfree/infra/database"
	infra_identity "github.com/amirasaad/debtfree/infra/identity"
	infra_mirror "github.com/amirasaad/debtfree/infra/mirror"
	infra_repository "github.com/amirasaad/debtfree/infra/repository"
	"github.com/amirasaad/debtfree/pkg/app"
	"github.com/amirasaad/debtfree/pkg/config"
	"github.com/amirasaad/debtfree/pkg/identity"
	"github.com/amirasaad/debtfree/pkg/mirror"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (deps *app.Deps, err error) {
	logger := SetupLogger(cfg.Log)
	return initDeps(cfg, logger)
}

func initDeps(cfg *config.App, logger *slog.Logger) (deps *app.Deps, err error) {
	var closers []func() error
	defer func() {
		if err != nil {
			closeAll(closers)
		}
	}()

	// Initialize database
	db, err := database.Open(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	closers = append(closers, func() error { return database.Close(db) })

	// Initialize remote mirror
	store, err := initMirror(cfg, logger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, store.Close)

	// Initialize identity source
	source, err := initIdentity(cfg.Auth, logger)
	if err != nil {
		return nil, err
	}
	return &app.Deps{
		Uow:       infra_repository.NewUoW(db),
		Mirror:    store,
		Identity:  source,
		Logger:    logger,
		AccessLog: os.Stderr,
		Closers:   closers,
	}, nil
}

// closeAll releases closers in reverse order of acquisition.
func closeAll(closers []func() error) {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i]()
	}
}

// initMirror picks the Redis mirror when a URL is configured and the
// in-process one otherwise. An unreachable Redis is kept: sync treats it as
// temporarily unavailable and local writes carry on.
func initMirror(cfg *config.App, logger *slog.Logger) (mirror.Store, error) {
	origin := ""
	if cfg.Sync != nil {
		origin = cfg.Sync.DeviceID
	}
	if cfg.Redis == nil || cfg.Redis.URL == "" {
		logger.Info("Using in-process mirror", "device_id", origin)
		return infra_mirror.NewMemory(origin, logger), nil
	}

	store, err := infra_mirror.NewRedis(cfg.Redis, origin, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis mirror: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout+time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		logger.Warn("Redis mirror unreachable; changes stay local until it returns", "error", err)
	} else {
		logger.Info("Connected to Redis mirror", "device_id", origin)
	}
	return store, nil
}

// initIdentity returns a token source when a token is configured.
func initIdentity(cfg *config.Auth, logger *slog.Logger) (identity.Source, error) {
	if cfg == nil || cfg.Token == "" {
		return nil, nil
	}
	verifier, err := infra_identity.NewVerifier(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity verifier: %w", err)
	}
	return infra_identity.NewTokenSource(verifier, cfg.Token, logger), nil
}
