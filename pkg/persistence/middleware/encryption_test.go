package middleware_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahunallar/braid/pkg/adapters/memory"
	"github.com/noahunallar/braid/pkg/domain"
	"github.com/noahunallar/braid/pkg/persistence/middleware"
	"github.com/noahunallar/braid/pkg/ports"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func encryptedStore(t *testing.T, config middleware.EncryptionConfig) (ports.SnapshotStore, *memory.Store) {
	t.Helper()
	inner := memory.NewStore()
	return middleware.NewEncryptionMiddleware(config)(inner), inner
}

func sampleSnapshot(sessionID string) *domain.Snapshot {
	snap := domain.NewSnapshot(sessionID)
	snap.Slices["filter"] = "COMPLETE"
	snap.Slices["todos"] = []map[string]any{{"id": "a", "task": "secret"}}
	snap.Version = 3
	return snap
}

func TestEncryption_Roundtrip(t *testing.T) {
	ctx := context.Background()
	store, inner := encryptedStore(t, middleware.EncryptionConfig{ActiveKey: testKey(1)})

	require.NoError(t, store.Save(ctx, "s1", sampleSnapshot("s1")))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETE", loaded.Slices["filter"])
	assert.Equal(t, uint64(3), loaded.Version)

	// The backing store only ever sees the opaque envelope.
	raw, err := inner.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotContains(t, raw.Slices, "filter")
	assert.Contains(t, raw.Slices, "__encrypted__")
	assert.Equal(t, uint64(3), raw.Version, "version stays visible for monitoring")
}

func TestEncryption_WrongKeyFails(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()

	writer := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)})(inner)
	require.NoError(t, writer.Save(ctx, "s1", sampleSnapshot("s1")))

	reader := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(2)})(inner)
	_, err := reader.Load(ctx, "s1")
	assert.Error(t, err)
}

func TestEncryption_KeyRotation(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()

	old := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)})(inner)
	require.NoError(t, old.Save(ctx, "s1", sampleSnapshot("s1")))

	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    testKey(2),
		FallbackKeys: [][]byte{testKey(1)},
	})(inner)

	loaded, err := rotated.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETE", loaded.Slices["filter"])
}

func TestEncryption_PlainSnapshotRejected(t *testing.T) {
	ctx := context.Background()
	store, inner := encryptedStore(t, middleware.EncryptionConfig{ActiveKey: testKey(1)})

	require.NoError(t, inner.Save(ctx, "plain", sampleSnapshot("plain")))

	_, err := store.Load(ctx, "plain")
	assert.Error(t, err)
}

func TestEncryption_BadKeyLengthPanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}
