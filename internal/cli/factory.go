package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/noahunallar/braid"
	"github.com/noahunallar/braid/internal/logging"
	"github.com/noahunallar/braid/pkg/adapters/memory"
	redisAdapter "github.com/noahunallar/braid/pkg/adapters/redis"
	"github.com/noahunallar/braid/pkg/domain"
	"github.com/noahunallar/braid/pkg/middleware"
	persistence "github.com/noahunallar/braid/pkg/persistence/middleware"
	"github.com/noahunallar/braid/pkg/ports"
	"github.com/noahunallar/braid/pkg/session"
	"github.com/noahunallar/braid/pkg/todo"
)

// NewLogger builds the application logger from the configured level.
func NewLogger(cfg Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return logging.New(level)
}

// NewSnapshotStore builds the configured snapshot store, wrapped in
// encryption middleware when a key is configured. The returned close func
// releases backend resources and may be nil-safe to call once.
func NewSnapshotStore(cfg Config) (ports.SnapshotStore, ports.DistributedLocker, func() error, error) {
	var store ports.SnapshotStore
	var locker ports.DistributedLocker
	closeFn := func() error { return nil }

	switch cfg.Backend {
	case "", "memory":
		store = memory.NewStore()
	case "redis":
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		opts := []redisAdapter.Option{}
		if cfg.Redis.TTLSeconds > 0 {
			opts = append(opts, redisAdapter.WithTTL(secondsToDuration(cfg.Redis.TTLSeconds)))
		}
		rs := redisAdapter.NewFromClient(client, opts...)
		store = rs
		closeFn = rs.Close
		if cfg.Redis.Lock {
			locker = redisAdapter.NewLocker(client, "braid:session:")
		}
	default:
		return nil, nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	active, fallbacks, err := cfg.Encryption.DecodeKeys()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(active) > 0 {
		store = persistence.NewEncryptionMiddleware(persistence.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		})(store)
	}

	return store, locker, closeFn, nil
}

// NewSessionManager wires the configured snapshot store, the distributed
// locker when redis.lock is enabled, and the todo store factory into a
// session manager. The returned close func releases backend resources.
func NewSessionManager(cfg Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	store, locker, closeFn, err := NewSnapshotStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		opts = append(opts, session.WithLocker(locker))
	}

	manager := session.NewManager(store, func() (*braid.Store, error) {
		return NewTodoStore(logger)
	}, opts...)
	return manager, closeFn, nil
}

// NewTodoStore assembles the canonical todo store: both todo slices, the
// action allowlist, and any extra options the host supplies (hooks, logger).
func NewTodoStore(logger *slog.Logger, extra ...braid.Option) (*braid.Store, error) {
	opts := []braid.Option{
		braid.WithSlice(todo.SliceTodos, todo.Reducer, []todo.Todo{}),
		braid.WithSlice(todo.SliceFilter, todo.FilterReducer, todo.FilterAll),
		braid.WithLogger(logger),
		braid.WithInterceptors(
			middleware.Logging(logger),
			middleware.Allowlist(todo.ActionTypes()...),
		),
	}
	opts = append(opts, extra...)
	return braid.New(opts...)
}

// Hooks builds slog-backed lifecycle hooks for verbose hosts.
func Hooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateChange: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.InfoContext(ctx, "state changed",
				"action_type", e.ActionType,
				"version", e.Version,
				"duration", e.Duration,
			)
		},
		OnError: func(ctx context.Context, e *domain.ErrorEvent) {
			logger.ErrorContext(ctx, "reducer failed",
				"action_type", e.ActionType,
				"slice", e.Key,
				"err", e.Err,
			)
		},
	}
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
