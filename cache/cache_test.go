package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	c := New(time.Minute)
	c.Set("blogs:list", []string{"a", "b"})

	value, ok := c.Get("blogs:list")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, value)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestEntriesExpire(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Set("k", 1)

	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestClearByPrefix(t *testing.T) {
	c := New(time.Minute)
	c.Set("blogs:list:1", 1)
	c.Set("blogs:list:2", 2)
	c.Set("projects:list:1", 3)

	c.Clear("blogs")

	_, ok := c.Get("blogs:list:1")
	assert.False(t, ok)
	_, ok = c.Get("blogs:list:2")
	assert.False(t, ok)
	_, ok = c.Get("projects:list:1")
	assert.True(t, ok)
}

func TestClearAll(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear("")

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}
