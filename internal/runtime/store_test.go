package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahunallar/braid/internal/runtime"
	"github.com/noahunallar/braid/pkg/domain"
)

// recording returns a reducer that logs its key on every invocation and
// leaves its state untouched.
func recording(key string, calls *[]string) domain.Reducer {
	return func(state any, action domain.Action) (any, error) {
		*calls = append(*calls, key)
		return state, nil
	}
}

func TestStore_FanOutOrder(t *testing.T) {
	var calls []string
	store, err := runtime.New([]runtime.SliceDef{
		{Key: "zebra", Reducer: recording("zebra", &calls), Initial: 0},
		{Key: "alpha", Reducer: recording("alpha", &calls), Initial: 0},
		{Key: "mango", Reducer: recording("mango", &calls), Initial: 0},
	})
	require.NoError(t, err)

	require.NoError(t, store.Dispatch(context.Background(), domain.NewAction("ANY", nil)))
	assert.Equal(t, []string{"zebra", "alpha", "mango"}, calls, "every reducer exactly once, in registration order")

	calls = nil
	require.NoError(t, store.Dispatch(context.Background(), domain.NewAction("OTHER", nil)))
	assert.Equal(t, []string{"zebra", "alpha", "mango"}, calls, "order is fixed across dispatches")
}

func TestStore_StateFreshness(t *testing.T) {
	store, err := runtime.New([]runtime.SliceDef{
		{Key: "count", Reducer: recording("count", &[]string{}), Initial: 7},
	})
	require.NoError(t, err)

	first := store.State()
	second := store.State()
	assert.Equal(t, first, second, "contents are equal with no dispatch in between")

	// Mutating one view must not leak into the other.
	first["count"] = 99
	assert.Equal(t, 7, second["count"])
	assert.Equal(t, 7, store.State()["count"])
}

func TestStore_ZeroSlices(t *testing.T) {
	store, err := runtime.New(nil)
	require.NoError(t, err)

	assert.Empty(t, store.State())
	assert.NoError(t, store.Dispatch(context.Background(), domain.NewAction("ANY", nil)), "dispatch with no slices is a no-op")
}

func TestStore_DuplicateKey(t *testing.T) {
	noop := func(state any, action domain.Action) (any, error) { return state, nil }
	_, err := runtime.New([]runtime.SliceDef{
		{Key: "a", Reducer: noop, Initial: 0},
		{Key: "a", Reducer: noop, Initial: 0},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateSlice)
}

func TestStore_FailFastHaltsFanOut(t *testing.T) {
	boom := errors.New("boom")
	var calls []string
	store, err := runtime.New([]runtime.SliceDef{
		{Key: "first", Reducer: func(state any, action domain.Action) (any, error) {
			calls = append(calls, "first")
			return state.(int) + 1, nil
		}, Initial: 0},
		{Key: "second", Reducer: func(state any, action domain.Action) (any, error) {
			calls = append(calls, "second")
			return nil, boom
		}, Initial: 0},
		{Key: "third", Reducer: recording("third", &calls), Initial: 0},
	})
	require.NoError(t, err)

	err = store.Dispatch(context.Background(), domain.NewAction("ANY", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom, "the reducer error is observable by the caller")
	assert.Contains(t, err.Error(), `slice "second"`)
	assert.Equal(t, []string{"first", "second"}, calls, "slices after the failing one are not invoked")

	// No rollback: the first slice keeps its update.
	assert.Equal(t, 1, store.State()["first"])
}

func TestStore_FailFastNotifiesPartialChange(t *testing.T) {
	boom := errors.New("boom")
	var changed int
	store, err := runtime.New([]runtime.SliceDef{
		{Key: "first", Reducer: func(state any, action domain.Action) (any, error) {
			return state.(int) + 1, nil
		}, Initial: 0},
		{Key: "second", Reducer: func(state any, action domain.Action) (any, error) {
			return nil, boom
		}, Initial: 0},
	}, runtime.WithHooks(domain.LifecycleHooks{
		OnStateChange: func(context.Context, *domain.DispatchEvent) { changed++ },
	}))
	require.NoError(t, err)

	var notified []map[string]any
	store.Subscribe(func(state map[string]any) {
		notified = append(notified, state)
	})

	err = store.Dispatch(context.Background(), domain.NewAction("ANY", nil))
	require.ErrorIs(t, err, boom)

	// The first slice changed before the abort; observers must not go stale.
	assert.Equal(t, 1, changed)
	require.Len(t, notified, 1)
	assert.Equal(t, 1, notified[0]["first"])
}

func TestStore_FaultIsolationAttemptsEverySlice(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	var calls []string
	store, err := runtime.New([]runtime.SliceDef{
		{Key: "a", Reducer: func(state any, action domain.Action) (any, error) {
			calls = append(calls, "a")
			return nil, errA
		}, Initial: 0},
		{Key: "ok", Reducer: func(state any, action domain.Action) (any, error) {
			calls = append(calls, "ok")
			return state.(int) + 1, nil
		}, Initial: 0},
		{Key: "b", Reducer: func(state any, action domain.Action) (any, error) {
			calls = append(calls, "b")
			return nil, errB
		}, Initial: 0},
	}, runtime.WithFaultIsolation())
	require.NoError(t, err)

	err = store.Dispatch(context.Background(), domain.NewAction("ANY", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, []string{"a", "ok", "b"}, calls, "every slice is attempted")
	assert.Equal(t, 1, store.State()["ok"])
}

func TestStore_VersionCounts(t *testing.T) {
	store, err := runtime.New([]runtime.SliceDef{
		{Key: "x", Reducer: recording("x", &[]string{}), Initial: nil},
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(0), store.Version())
	require.NoError(t, store.Dispatch(context.Background(), domain.NewAction("A", nil)))
	require.NoError(t, store.Dispatch(context.Background(), domain.NewAction("B", nil)))
	assert.Equal(t, uint64(2), store.Version())
}

func TestStore_Hooks(t *testing.T) {
	var dispatched, changed, sliceApplied int
	hooks := domain.LifecycleHooks{
		OnDispatch:     func(context.Context, *domain.DispatchEvent) { dispatched++ },
		OnStateChange:  func(context.Context, *domain.DispatchEvent) { changed++ },
		OnSliceApplied: func(context.Context, *domain.SliceEvent) { sliceApplied++ },
	}
	store, err := runtime.New([]runtime.SliceDef{
		{Key: "n", Reducer: func(state any, action domain.Action) (any, error) {
			if action.Type == "INC" {
				return state.(int) + 1, nil
			}
			return state, nil
		}, Initial: 0},
	}, runtime.WithHooks(hooks))
	require.NoError(t, err)

	require.NoError(t, store.Dispatch(context.Background(), domain.NewAction("INC", nil)))
	require.NoError(t, store.Dispatch(context.Background(), domain.NewAction("IGNORED", nil)))

	assert.Equal(t, 2, dispatched)
	assert.Equal(t, 2, sliceApplied)
	assert.Equal(t, 1, changed, "no state-change event for a no-op dispatch")
}

func TestStore_Subscribe(t *testing.T) {
	store, err := runtime.New([]runtime.SliceDef{
		{Key: "n", Reducer: func(state any, action domain.Action) (any, error) {
			if action.Type == "INC" {
				return state.(int) + 1, nil
			}
			return state, nil
		}, Initial: 0},
	})
	require.NoError(t, err)

	var notified []map[string]any
	cancel := store.Subscribe(func(state map[string]any) {
		notified = append(notified, state)
	})

	require.NoError(t, store.Dispatch(context.Background(), domain.NewAction("INC", nil)))
	require.NoError(t, store.Dispatch(context.Background(), domain.NewAction("IGNORED", nil)))
	require.Len(t, notified, 1, "subscribers fire only on state changes")
	assert.Equal(t, 1, notified[0]["n"])

	cancel()
	require.NoError(t, store.Dispatch(context.Background(), domain.NewAction("INC", nil)))
	assert.Len(t, notified, 1, "cancelled subscriptions stay silent")
}

func TestStore_Fingerprint(t *testing.T) {
	build := func() *runtime.Store {
		s, err := runtime.New([]runtime.SliceDef{
			{Key: "n", Reducer: func(state any, action domain.Action) (any, error) {
				if action.Type == "INC" {
					return state.(int) + 1, nil
				}
				return state, nil
			}, Initial: 0},
		})
		require.NoError(t, err)
		return s
	}

	a := build()
	b := build()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "equal state hashes equal")

	require.NoError(t, a.Dispatch(context.Background(), domain.NewAction("INC", nil)))
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestStore_FingerprintKeyValueBoundary(t *testing.T) {
	noop := func(state any, action domain.Action) (any, error) { return state, nil }

	// Without a delimiter between key and value, "a"+10 and "a1"+0 would
	// concatenate to the same hash stream.
	a, err := runtime.New([]runtime.SliceDef{{Key: "a", Reducer: noop, Initial: 10}})
	require.NoError(t, err)
	b, err := runtime.New([]runtime.SliceDef{{Key: "a1", Reducer: noop, Initial: 0}})
	require.NoError(t, err)

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestStore_SnapshotHydrate(t *testing.T) {
	build := func() *runtime.Store {
		s, err := runtime.New([]runtime.SliceDef{
			{Key: "n", Reducer: func(state any, action domain.Action) (any, error) {
				if action.Type == "INC" {
					return state.(int) + 1, nil
				}
				return state, nil
			}, Initial: 0},
		})
		require.NoError(t, err)
		return s
	}

	source := build()
	require.NoError(t, source.Dispatch(context.Background(), domain.NewAction("INC", nil)))
	snap := source.Snapshot("sess-1")
	assert.Equal(t, "sess-1", snap.SessionID)
	assert.Equal(t, uint64(1), snap.Version)

	target := build()
	require.NoError(t, target.Hydrate(snap))
	assert.Equal(t, 1, target.State()["n"])
	assert.Equal(t, uint64(1), target.Version())

	t.Run("unknown slice key fails", func(t *testing.T) {
		bad := domain.NewSnapshot("sess-2")
		bad.Slices["ghost"] = 1
		err := target.Hydrate(bad)
		assert.ErrorIs(t, err, domain.ErrUnknownSlice)
		// Hydrate validates before writing anything.
		assert.Equal(t, 1, target.State()["n"])
	})
}
