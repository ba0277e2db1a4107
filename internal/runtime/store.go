// Package runtime implements the reducer combinator at the heart of braid:
// an ordered set of (key, reducer, sub-state) slices folded into one combined
// state view and one fan-out dispatch entry point.
package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/noahunallar/braid/pkg/domain"
)

// Store combines independent reducers into a single state container.
//
// Dispatch forwards each action to every slice reducer synchronously, in the
// fixed order the slices were registered. The store adds no side effects of
// its own: observation goes through LifecycleHooks and Subscribe, both of
// which run inside the dispatch cycle and must not re-enter the store.
//
// A mutex serializes Dispatch against itself and against State, so a Store is
// safe for concurrent use; within one dispatch cycle the combined state
// reflects exactly one action's effects across all slices.
type Store struct {
	mu     sync.Mutex
	keys   []string
	slices map[string]*slice

	version uint64
	isolate bool
	hooks   domain.LifecycleHooks

	subs    map[int]func(map[string]any)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithHooks registers observability callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Store) {
		s.hooks = hooks
	}
}

// WithFaultIsolation switches dispatch from fail-fast to best-effort fan-out:
// a reducer error no longer aborts the cycle for the remaining slices, and
// all errors are joined into the returned error.
func WithFaultIsolation() Option {
	return func(s *Store) {
		s.isolate = true
	}
}

// New builds a store from the given slice definitions. Slice order is the
// registration order and stays fixed for the life of the store.
// It fails on empty keys, nil reducers and duplicate keys.
func New(defs []SliceDef, opts ...Option) (*Store, error) {
	s := &Store{
		slices: make(map[string]*slice, len(defs)),
		subs:   make(map[int]func(map[string]any)),
	}
	for _, def := range defs {
		if def.Key == "" {
			return nil, errors.New("slice key must not be empty")
		}
		if def.Reducer == nil {
			return nil, fmt.Errorf("slice %q: reducer must not be nil", def.Key)
		}
		if _, exists := s.slices[def.Key]; exists {
			return nil, fmt.Errorf("slice %q: %w", def.Key, domain.ErrDuplicateSlice)
		}
		s.keys = append(s.keys, def.Key)
		s.slices[def.Key] = &slice{key: def.Key, reducer: def.Reducer, state: def.Initial}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dispatch forwards the action to every slice reducer in registration order.
//
// Fail-fast (default): the first reducer error aborts the remaining fan-out
// and is returned to the caller. Sub-states updated by reducers earlier in
// the order stay updated; there is no cross-slice rollback, and hooks plus
// subscribers still observe the partially-applied change.
//
// With fault isolation, every slice is attempted and the errors are joined.
func (s *Store) Dispatch(ctx context.Context, action domain.Action) error {
	start := time.Now()

	s.mu.Lock()
	if s.hooks.OnDispatch != nil {
		s.hooks.OnDispatch(ctx, &domain.DispatchEvent{
			EventBase:  domain.EventBase{Timestamp: start, Type: domain.EventDispatch},
			ActionType: action.Type,
			Version:    s.version,
		})
	}

	var errs []error
	anyChanged := false
	for _, key := range s.keys {
		changed, err := s.slices[key].apply(action)
		if err != nil {
			if s.hooks.OnError != nil {
				s.hooks.OnError(ctx, &domain.ErrorEvent{
					EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventError},
					ActionType: action.Type,
					Key:        key,
					Err:        err,
				})
			}
			if !s.isolate {
				view, subs := s.changedLocked(ctx, action.Type, start, anyChanged)
				s.mu.Unlock()
				for _, fn := range subs {
					fn(view)
				}
				return err
			}
			errs = append(errs, err)
			continue
		}
		anyChanged = anyChanged || changed
		if s.hooks.OnSliceApplied != nil {
			s.hooks.OnSliceApplied(ctx, &domain.SliceEvent{
				EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventSliceApplied},
				ActionType: action.Type,
				Key:        key,
				Changed:    changed,
			})
		}
	}

	s.version++
	view, subs := s.changedLocked(ctx, action.Type, start, anyChanged)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(view)
	}

	return errors.Join(errs...)
}

// changedLocked emits OnStateChange and snapshots the subscriber list when
// the cycle changed any sub-state. Called with the mutex held; the returned
// callbacks run after unlock.
func (s *Store) changedLocked(ctx context.Context, actionType string, start time.Time, anyChanged bool) (map[string]any, []func(map[string]any)) {
	if !anyChanged {
		return nil, nil
	}
	if s.hooks.OnStateChange != nil {
		s.hooks.OnStateChange(ctx, &domain.DispatchEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventStateChange},
			ActionType: actionType,
			Version:    s.version,
			Duration:   time.Since(start),
		})
	}
	if len(s.subs) == 0 {
		return nil, nil
	}
	view := s.stateLocked()
	subs := make([]func(map[string]any), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return view, subs
}

// State returns the combined state: a freshly built map from slice key to the
// current sub-state. The map is never shared between calls; sub-state values
// are the reducers' own (immutable-by-contract) values.
func (s *Store) State() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() map[string]any {
	out := make(map[string]any, len(s.keys))
	for _, key := range s.keys {
		out[key] = s.slices[key].state
	}
	return out
}

// Keys returns the slice keys in dispatch order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Version returns the number of dispatch cycles completed so far.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Fingerprint returns a cheap content hash of the combined state, computed
// over the JSON encoding of each sub-state in key order. Two stores holding
// equal state produce the same fingerprint; hosts use it for change detection
// and HTTP ETags.
func (s *Store) Fingerprint() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := xxhash.New()
	enc := json.NewEncoder(h)
	for _, key := range s.keys {
		_, _ = h.WriteString(key)
		// NUL keeps the key/value boundary unambiguous in the hash stream;
		// Encode terminates each value with a newline.
		_, _ = h.Write([]byte{0})
		// Unencodable sub-states degrade to hashing the key alone.
		_ = enc.Encode(s.slices[key].state)
	}
	return h.Sum64()
}

// Subscribe registers a callback invoked after every dispatch cycle that
// changed state, including fail-fast cycles aborted after an earlier slice
// already changed. The callback receives a fresh combined state view and must
// not call back into the store. The returned cancel function removes the
// subscription.
func (s *Store) Subscribe(fn func(state map[string]any)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Snapshot captures the combined state for persistence.
func (s *Store) Snapshot(sessionID string) *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &domain.Snapshot{
		SessionID: sessionID,
		Slices:    s.stateLocked(),
		Version:   s.version,
		UpdatedAt: time.Now().UTC(),
	}
}

// Hydrate replaces sub-states from a snapshot. Every key in the snapshot must
// name a registered slice; keys absent from the snapshot keep their current
// sub-state. Reducers consuming hydrated values are expected to tolerate the
// generic maps JSON persistence produces (see domain.DecodePayload).
func (s *Store) Hydrate(snap *domain.Snapshot) error {
	if snap == nil {
		return errors.New("snapshot must not be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range snap.Slices {
		if _, ok := s.slices[key]; !ok {
			return fmt.Errorf("slice %q: %w", key, domain.ErrUnknownSlice)
		}
	}
	for key, value := range snap.Slices {
		s.slices[key].state = value
	}
	s.version = snap.Version
	return nil
}

// equal reports whether two sub-state values are equal. Sub-states are plain
// data by contract, so deep equality is well-defined.
func equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
