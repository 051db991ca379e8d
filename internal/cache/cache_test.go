package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("match:1001", []byte(`{"id":"1001"}`), time.Minute)
	got, ok := c.Get("match:1001")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"id":"1001"}`), got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	c.Set("k", []byte("v"), time.Minute)
	c.Delete("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestNewDefaultsToMemory(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	defer c.Close()

	_, isMemory := c.(*MemoryCache)
	assert.True(t, isMemory)
}
