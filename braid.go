package braid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/noahunallar/braid/internal/logging"
	"github.com/noahunallar/braid/internal/runtime"
	"github.com/noahunallar/braid/pkg/domain"
	"github.com/noahunallar/braid/pkg/middleware"
)

// Store is the high-level entry point for the braid library.
// It wraps the internal runtime store and layers the dispatch interceptor
// chain in front of the reducer fan-out.
type Store struct {
	runtime     *runtime.Store
	interceptor middleware.DispatchInterceptor
	logger      *slog.Logger
}

type config struct {
	defs         []runtime.SliceDef
	runtimeOpts  []runtime.Option
	interceptors []middleware.DispatchInterceptor
	logger       *slog.Logger
}

// Option defines a functional option for configuring the Store.
type Option func(*config)

// WithSlice registers a named slice: a reducer and its initial sub-state.
// Slices dispatch in registration order. Keys must be distinct.
func WithSlice(key string, reducer domain.Reducer, initial any) Option {
	return func(c *config) {
		c.defs = append(c.defs, runtime.SliceDef{Key: key, Reducer: reducer, Initial: initial})
	}
}

// WithLogger configures the store's logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithHooks(hooks))
	}
}

// WithInterceptors installs the dispatch interceptor chain. Interceptors run
// in order before any reducer sees the action; the first to block wins.
func WithInterceptors(interceptors ...middleware.DispatchInterceptor) Option {
	return func(c *config) {
		c.interceptors = append(c.interceptors, interceptors...)
	}
}

// WithFaultIsolation switches dispatch from fail-fast to best-effort fan-out.
// See the package documentation for the trade-off.
func WithFaultIsolation() Option {
	return func(c *config) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithFaultIsolation())
	}
}

// New creates a store from the given options. At least the slices are
// expected; a store with zero slices is valid and dispatches to nobody.
func New(opts ...Option) (*Store, error) {
	cfg := &config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	rt, err := runtime.New(cfg.defs, cfg.runtimeOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build store: %w", err)
	}

	s := &Store{
		runtime: rt,
		logger:  cfg.logger,
	}
	if len(cfg.interceptors) > 0 {
		s.interceptor = middleware.Multi(cfg.interceptors...)
	}
	return s, nil
}

// Dispatch runs the interceptor chain and then forwards the action to every
// slice reducer. A blocked action returns domain.ErrActionBlocked; a reducer
// error propagates per the store's fault policy.
func (s *Store) Dispatch(ctx context.Context, action domain.Action) error {
	if s.interceptor != nil {
		allowed, err := s.interceptor(ctx, action)
		if err != nil {
			return fmt.Errorf("interceptor: %w", err)
		}
		if !allowed {
			s.logger.WarnContext(ctx, "action blocked", "action_type", action.Type)
			return fmt.Errorf("action %q: %w", action.Type, domain.ErrActionBlocked)
		}
	}
	return s.runtime.Dispatch(ctx, action)
}

// State returns a freshly built view of the combined state.
func (s *Store) State() map[string]any {
	return s.runtime.State()
}

// Keys returns the slice keys in dispatch order.
func (s *Store) Keys() []string {
	return s.runtime.Keys()
}

// Version returns the number of dispatch cycles completed so far.
func (s *Store) Version() uint64 {
	return s.runtime.Version()
}

// Fingerprint returns a content hash of the combined state.
func (s *Store) Fingerprint() uint64 {
	return s.runtime.Fingerprint()
}

// Subscribe registers a state-change callback and returns its cancel func.
func (s *Store) Subscribe(fn func(state map[string]any)) (cancel func()) {
	return s.runtime.Subscribe(fn)
}

// Snapshot captures the combined state for persistence.
func (s *Store) Snapshot(sessionID string) *domain.Snapshot {
	return s.runtime.Snapshot(sessionID)
}

// Hydrate replaces sub-states from a persisted snapshot.
func (s *Store) Hydrate(snap *domain.Snapshot) error {
	return s.runtime.Hydrate(snap)
}
