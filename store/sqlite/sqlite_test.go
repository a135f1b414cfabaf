package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage/perdiem-engine/rates"
)

func newTestStore(t *testing.T) *Store {
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, 2025, rates.KindDomesticLodging)
	require.NoError(t, err)
	assert.False(t, ok, "empty store must miss")

	payload := []byte(`[{"City":"Los Angeles"}]`)
	require.NoError(t, store.Put(ctx, 2025, rates.KindDomesticLodging, payload))

	got, ok, err := store.Get(ctx, 2025, rates.KindDomesticLodging)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, 2025, rates.KindDomesticLodging, []byte("lodging")))
	require.NoError(t, store.Put(ctx, 2025, rates.KindInternational, []byte("intl")))
	require.NoError(t, store.Put(ctx, 2024, rates.KindDomesticLodging, []byte("old")))

	got, ok, err := store.Get(ctx, 2025, rates.KindInternational)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("intl"), got)

	got, ok, err = store.Get(ctx, 2024, rates.KindDomesticLodging)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("old"), got)
}

func TestStore_PutReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, 2025, rates.KindDomesticMeals, []byte("v1")))
	require.NoError(t, store.Put(ctx, 2025, rates.KindDomesticMeals, []byte("v2")))

	got, ok, err := store.Get(ctx, 2025, rates.KindDomesticMeals)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), got)
}
