package draft

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuhm/bitnap/backend/internal/testhelpers"
)

const quiet = 20 * time.Millisecond

type note struct {
	Text string `json:"text"`
}

func hasText(n note) bool { return strings.TrimSpace(n.Text) != "" }

type countingStore struct {
	*MemoryStore
	puts atomic.Int32
}

func (s *countingStore) Put(ctx context.Context, key string, data []byte) error {
	s.puts.Add(1)
	return s.MemoryStore.Put(ctx, key, data)
}

func newSaver(t *testing.T) (*Autosaver[note], *countingStore) {
	t.Helper()
	store := &countingStore{MemoryStore: NewMemoryStore()}
	a := New[note](store, hasText, Options{QuietPeriod: quiet})
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a, store
}

func TestSaveDebouncesRapidEdits(t *testing.T) {
	a, store := newSaver(t)
	ctx := context.Background()

	for _, text := range []string{"I", "I was", "I was flying"} {
		require.NoError(t, a.Save("u1", note{Text: text}))
	}
	assert.True(t, a.Pending("u1"))

	require.Eventually(t, func() bool { return !a.Pending("u1") }, time.Second, 5*time.Millisecond)

	got, _, err := a.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "I was flying", got.Text)
	assert.Equal(t, int32(1), store.puts.Load())
}

func TestEmptyContentIsNeverPersisted(t *testing.T) {
	a, store := newSaver(t)
	ctx := context.Background()

	require.NoError(t, a.Save("u1", note{Text: "   "}))
	require.NoError(t, a.Flush(ctx, "u1"))

	_, _, err := a.Load(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.puts.Load())
}

func TestFlushWritesImmediately(t *testing.T) {
	store := NewMemoryStore()
	a := New[note](store, hasText, Options{QuietPeriod: time.Hour})
	defer a.Close(context.Background())
	ctx := context.Background()

	require.NoError(t, a.Save("u1", note{Text: "falling"}))
	require.NoError(t, a.Flush(ctx, "u1"))
	assert.False(t, a.Pending("u1"))

	_, err := store.Get(ctx, "u1")
	assert.NoError(t, err)
}

func TestLoadReportsSavedAt(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC)
	a := New[note](NewMemoryStore(), hasText, Options{QuietPeriod: time.Hour, Now: func() time.Time { return fixed }})
	defer a.Close(context.Background())

	require.NoError(t, a.Save("u1", note{Text: "teeth falling out"}))

	got, savedAt, err := a.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "teeth falling out", got.Text)
	assert.True(t, fixed.Equal(savedAt))
}

func TestClearCancelsPendingSave(t *testing.T) {
	a, _ := newSaver(t)
	ctx := context.Background()

	require.NoError(t, a.Save("u1", note{Text: "first"}))
	require.NoError(t, a.Flush(ctx, "u1"))
	require.NoError(t, a.Save("u1", note{Text: "second"}))
	require.NoError(t, a.Clear(ctx, "u1"))

	time.Sleep(3 * quiet)

	_, _, err := a.Load(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaleWriteDoesNotOverwriteNewer(t *testing.T) {
	a, _ := newSaver(t)
	ctx := context.Background()

	require.NoError(t, a.persist(ctx, "u1", note{Text: "newer"}, 2))
	require.NoError(t, a.persist(ctx, "u1", note{Text: "older"}, 1))

	got, _, err := a.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "newer", got.Text)
}

func TestKeysAreIndependent(t *testing.T) {
	a, _ := newSaver(t)
	ctx := context.Background()

	require.NoError(t, a.Save("u1", note{Text: "one"}))
	require.NoError(t, a.Save("u2", note{Text: "two"}))
	require.NoError(t, a.Clear(ctx, "u1"))
	require.NoError(t, a.Flush(ctx, "u2"))

	_, _, err := a.Load(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	got, _, err := a.Load(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "two", got.Text)
}

func TestCloseFlushesPending(t *testing.T) {
	store := NewMemoryStore()
	a := New[note](store, hasText, Options{QuietPeriod: time.Hour})
	ctx := context.Background()

	require.NoError(t, a.Save("u1", note{Text: "lucid"}))
	require.NoError(t, a.Close(ctx))

	_, err := store.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.ErrorIs(t, a.Save("u1", note{Text: "late"}), ErrClosed)
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	client := testhelpers.SetupTestRedis(t)
	store := NewRedisStore(client, "journal:draft:", time.Minute)
	ctx := context.Background()

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "u1", []byte(`{"x":1}`)))
	data, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(data))

	ttl, err := client.TTL(ctx, "journal:draft:u1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, "u1"))
	_, err = store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}
