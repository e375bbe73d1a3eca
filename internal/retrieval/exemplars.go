// Package retrieval keeps an in-memory index of labeled exemplar messages
// for annotation triage: batch reports attach the nearest labeled exemplar
// to each decision so reviewers see what a score was close to. The index
// embeds text with the same deterministic features the classifier consumes.
package retrieval

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/features"
)

// Exemplar is one labeled reference message.
type Exemplar struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Label string `json:"label"` // SAFE or MOVE
}

// Match is an exemplar returned from a similarity query.
type Match struct {
	Exemplar
	Similarity float32 `json:"similarity"`
}

// Index is a chromem-backed exemplar store. Read-safe for concurrent use
// once populated.
type Index struct {
	collection *chromem.Collection
}

// NewIndex creates an empty index over the extractor's embedding.
func NewIndex(extractor *features.Extractor) (*Index, error) {
	db := chromem.NewDB()
	collection, err := db.CreateCollection("exemplars", nil, embeddingFunc(extractor))
	if err != nil {
		return nil, fmt.Errorf("create exemplar collection: %w", err)
	}
	return &Index{collection: collection}, nil
}

// Add inserts exemplars into the index.
func (ix *Index) Add(ctx context.Context, exemplars []Exemplar) error {
	if len(exemplars) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(exemplars))
	for _, ex := range exemplars {
		docs = append(docs, chromem.Document{
			ID:       ex.ID,
			Content:  ex.Text,
			Metadata: map[string]string{"label": ex.Label},
		})
	}
	return ix.collection.AddDocuments(ctx, docs, 1)
}

// Count returns the number of indexed exemplars.
func (ix *Index) Count() int {
	return ix.collection.Count()
}

// Nearest returns up to k exemplars most similar to text.
func (ix *Index) Nearest(ctx context.Context, text string, k int) ([]Match, error) {
	if count := ix.collection.Count(); count == 0 {
		return nil, nil
	} else if k > count {
		k = count
	}

	results, err := ix.collection.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query exemplars: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, res := range results {
		matches = append(matches, Match{
			Exemplar: Exemplar{
				ID:    res.ID,
				Text:  res.Content,
				Label: res.Metadata["label"],
			},
			Similarity: res.Similarity,
		})
	}
	return matches, nil
}

// embeddingFunc adapts the feature extractor to chromem's embedding
// contract. Extraction ignores history here; exemplars are single messages.
func embeddingFunc(extractor *features.Extractor) chromem.EmbeddingFunc {
	return func(_ context.Context, text string) ([]float32, error) {
		vec, err := extractor.Extract(text, nil)
		if err != nil {
			return nil, err
		}
		out := make([]float32, len(vec))
		for i, v := range vec {
			out[i] = float32(v)
		}
		return out, nil
	}
}
