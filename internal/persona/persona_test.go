package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownPersona(t *testing.T) {
	p, err := Get("friendly")
	require.NoError(t, err)
	assert.Contains(t, p.SystemPrompt, "dating app")
}

func TestGetUnknownPersona(t *testing.T) {
	_, err := Get("grumpy")
	assert.Error(t, err)
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"flirty_adult_ok", "friendly"}, Names())
}
