package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/UnknownOlympus/iris/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRemote_SubscribeDeliversCurrentValue(t *testing.T) {
	t.Parallel()

	remote := store.NewMemoryRemote()
	require.NoError(t, remote.Set(t.Context(), "k", []byte(`"v1"`)))

	var got []store.Snapshot
	unsubscribe, err := remote.Subscribe(t.Context(), "k", func(s store.Snapshot) { got = append(got, s) })
	require.NoError(t, err)
	defer unsubscribe()

	require.Len(t, got, 1)
	assert.True(t, got[0].Exists)
	assert.Equal(t, `"v1"`, string(got[0].Value))

	require.NoError(t, remote.Set(t.Context(), "k", []byte(`"v2"`)))
	require.Len(t, got, 2)
	assert.Equal(t, `"v2"`, string(got[1].Value))

	require.NoError(t, remote.Set(t.Context(), "other", []byte(`"x"`)))
	assert.Len(t, got, 2, "changes to other keys are not delivered")
}

func TestMemoryRemote_EmptyKey(t *testing.T) {
	t.Parallel()

	remote := store.NewMemoryRemote()

	var got store.Snapshot
	unsubscribe, err := remote.Subscribe(t.Context(), "missing", func(s store.Snapshot) { got = s })
	require.NoError(t, err)
	defer unsubscribe()

	assert.False(t, got.Exists)
	assert.Equal(t, "missing", got.Key)
}

func TestMemoryRemote_StoresCopy(t *testing.T) {
	t.Parallel()

	remote := store.NewMemoryRemote()
	value := []byte(`"abc"`)
	require.NoError(t, remote.Set(t.Context(), "k", value))
	value[1] = 'z'

	var got store.Snapshot
	unsubscribe, err := remote.Subscribe(t.Context(), "k", func(s store.Snapshot) { got = s })
	require.NoError(t, err)
	defer unsubscribe()

	assert.Equal(t, `"abc"`, string(got.Value))
}

func TestMemoryRemote_UnsubscribeOnContextDone(t *testing.T) {
	t.Parallel()

	remote := store.NewMemoryRemote()
	ctx, cancel := context.WithCancel(t.Context())

	unsubscribe, err := remote.Subscribe(ctx, "k", func(store.Snapshot) {})
	require.NoError(t, err)
	require.Equal(t, 1, remote.Subscribers("k"))

	cancel()
	assert.Eventually(t, func() bool { return remote.Subscribers("k") == 0 }, time.Second, time.Millisecond)

	unsubscribe()
}

func TestMemoryRemote_CancelledContext(t *testing.T) {
	t.Parallel()

	remote := store.NewMemoryRemote()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.ErrorIs(t, remote.Set(ctx, "k", nil), context.Canceled)
	_, err := remote.Subscribe(ctx, "k", func(store.Snapshot) {})
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, remote.Ping(ctx), context.Canceled)
}
