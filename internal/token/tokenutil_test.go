package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountNonEmpty(t *testing.T) {
	assert.Greater(t, Count("how was your weekend?"), 0)
	assert.Equal(t, 0, Count(""))
}

func TestCountIsDeterministic(t *testing.T) {
	text := "coffee this week sounds nice"
	assert.Equal(t, Count(text), Count(text))
}

func TestEstimateFast(t *testing.T) {
	assert.Equal(t, 0, EstimateFast("   "))
	assert.Equal(t, 1, EstimateFast("hi"))
	// Long text estimates roughly runes/4.
	assert.GreaterOrEqual(t, EstimateFast("abcdefghijklmnop"), 4)
}
