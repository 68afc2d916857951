package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Badger {
	t.Helper()
	b, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBadger_SetGet(t *testing.T) {
	b := openMemory(t)

	_, ok, err := b.Get("groups.all")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set("groups.all", []byte(`[]`), time.Minute))
	v, ok, err := b.Get("groups.all")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), v)
}

func TestBadger_Expiry(t *testing.T) {
	b := openMemory(t)

	require.NoError(t, b.Set("polls.all", []byte(`[]`), time.Second))
	time.Sleep(1100 * time.Millisecond)

	_, ok, err := b.Get("polls.all")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadger_InvalidatePrefix(t *testing.T) {
	b := openMemory(t)

	require.NoError(t, b.Set(ModelKey("groups", "a"), []byte(`1`), 0))
	require.NoError(t, b.Set(ModelKey("groups", "all"), []byte(`2`), 0))
	require.NoError(t, b.Set(ModelKey("polls", "a"), []byte(`3`), 0))

	require.NoError(t, b.Invalidate("groups."))

	_, ok, _ := b.Get("groups.a")
	assert.False(t, ok)
	_, ok, _ = b.Get("groups.all")
	assert.False(t, ok)
	_, ok, _ = b.Get("polls.a")
	assert.True(t, ok)
}

func TestBadger_ConcurrentAccess(t *testing.T) {
	b := openMemory(t)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := ModelKey("tracks", fmt.Sprint(i%4))
			for j := range 50 {
				assert.NoError(t, b.Set(key, []byte(fmt.Sprint(j)), time.Minute))
				_, _, err := b.Get(key)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for i := range 4 {
		_, ok, err := b.Get(ModelKey("tracks", fmt.Sprint(i)))
		require.NoError(t, err)
		assert.True(t, ok)
	}

	require.NoError(t, b.Invalidate("tracks."))
	_, ok, err := b.Get(ModelKey("tracks", "0"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModelKey(t *testing.T) {
	assert.Equal(t, "users.1b4e28ba-2fa1-11d2-883f-0016d3cca427", ModelKey("users", "1b4e28ba-2fa1-11d2-883f-0016d3cca427"))
}
