package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/features"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/model"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	extractor, err := features.NewExtractor(model.EmbeddingSpec{Dim: 128})
	require.NoError(t, err)
	index, err := NewIndex(extractor)
	require.NoError(t, err)
	return index
}

func TestNearestFindsClosestExemplar(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, []Exemplar{
		{ID: "e1", Text: "send me your home address", Label: "MOVE"},
		{ID: "e2", Text: "how was your weekend", Label: "SAFE"},
	}))
	assert.Equal(t, 2, index.Count())

	matches, err := index.Nearest(ctx, "can you send me your home address please", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "e1", matches[0].ID)
	assert.Equal(t, "MOVE", matches[0].Label)
}

func TestNearestOnEmptyIndex(t *testing.T) {
	index := newTestIndex(t)

	matches, err := index.Nearest(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestNearestCapsKAtCount(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, []Exemplar{
		{ID: "e1", Text: "grab a coffee sometime", Label: "SAFE"},
	}))

	matches, err := index.Nearest(ctx, "coffee sometime", 10)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
