package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", []byte("v1")))
	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, m.Set(ctx, "k", []byte("v2")))
	got, _, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got, "set overwrites")
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	in := []byte("original")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'X'

	got, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got, "stored value must not alias caller's slice")

	got[0] = 'Y'
	again, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again, "returned value must not alias stored slice")
}

func TestBolt_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	b, err := OpenBolt(path)
	require.NoError(t, err)

	require.NoError(t, b.Set(ctx, "corrections/map", []byte(`{"a":1}`)))
	got, ok, err := b.Get(ctx, "corrections/map")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), got)

	_, ok, err = b.Get(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Close())

	// Values survive reopen.
	b2, err := OpenBolt(path)
	require.NoError(t, err)
	defer b2.Close()

	got, ok, err = b2.Get(ctx, "corrections/map")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), got)
}

func TestBolt_CanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	b, err := OpenBolt(path)
	require.NoError(t, err)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = b.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, b.Set(ctx, "k", nil))
}
