package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/dyeflow"
	"github.com/aretw0/dyeflow/internal/config"
	"github.com/aretw0/dyeflow/pkg/adapters/file"
	"github.com/aretw0/dyeflow/pkg/adapters/memory"
	"github.com/aretw0/dyeflow/pkg/adapters/postgres"
	"github.com/aretw0/dyeflow/pkg/adapters/redis"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/persistence/middleware"
	"github.com/aretw0/dyeflow/pkg/ports"
)

// OpenSnapshots builds the snapshot store selected by cfg, encrypting at rest
// when a key is configured. The returned function releases the backend
// connection.
func OpenSnapshots(ctx context.Context, cfg config.Store) (ports.SnapshotStore, func(), error) {
	store, closeFn, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, closeFn, err
	}

	key, err := cfg.Key()
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}
	if key == nil {
		return store, closeFn, nil
	}
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}
	return middleware.Chain(store, mw), closeFn, nil
}

func openBackend(ctx context.Context, cfg config.Store) (ports.SnapshotStore, func(), error) {
	noop := func() {}
	switch cfg.Kind {
	case "", "memory":
		return memory.NewStore(), noop, nil
	case "file":
		return file.New(cfg.Path), noop, nil
	case "redis":
		s, err := redis.New(cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		s, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown store kind %q", cfg.Kind)
}

// NewEditor creates an Editor with standard CLI conventions: the configured
// snapshot store and root label, and the seed document unless disabled.
func NewEditor(ctx context.Context, cfg config.Config, logger *slog.Logger, hooks domain.Hooks) (*dyeflow.Editor, func(), error) {
	store, closeFn, err := OpenSnapshots(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening snapshot store: %w", err)
	}

	opts := []dyeflow.Option{
		dyeflow.WithLogger(logger),
		dyeflow.WithHooks(hooks),
		dyeflow.WithSnapshotStore(store),
		dyeflow.WithRootLabel(cfg.RootLabel),
	}
	if cfg.Seed {
		opts = append(opts, dyeflow.WithSeed())
	}

	ed, err := dyeflow.New(opts...)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("error initializing editor: %w", err)
	}
	return ed, closeFn, nil
}
