package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := New()

	_, ok := c.Get("how many rows?")
	assert.False(t, ok)

	c.Set("how many rows?", "df.numRows")
	script, ok := c.Get("how many rows?")
	assert.True(t, ok)
	assert.Equal(t, "df.numRows", script)

	c.Clear()
	_, ok = c.Get("how many rows?")
	assert.False(t, ok)
}
