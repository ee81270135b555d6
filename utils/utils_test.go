package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInRange(t *testing.T) {
	assert.True(t, IsInRange(0, 0, 3))
	assert.True(t, IsInRange(0, 3, 3))
	assert.False(t, IsInRange(0, 4, 3))
	assert.False(t, IsInRange(0, -1, 3))
	assert.True(t, IsInRange(0.5, 0.75, 1.0))
}

func TestUnpack2(t *testing.T) {
	a, b := Unpack2([]string{"name", "0]"})
	assert.Equal(t, "name", a)
	assert.Equal(t, "0]", b)

	a, b = Unpack2([]string{"name"})
	assert.Equal(t, "name", a)
	assert.Empty(t, b)

	a, b = Unpack2([]string(nil))
	assert.Empty(t, a)
	assert.Empty(t, b)

	x, y := Unpack2([]int{1, 2, 3})
	assert.Equal(t, 1, x)
	assert.Equal(t, 2, y)
}
