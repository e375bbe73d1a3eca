// Package features converts a raw chat message, plus a bounded slice of
// recent history, into the fixed-size numeric vector the risk classifier
// consumes. Extraction is pure and deterministic: identical input always
// yields an identical vector.
package features

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"

	gateerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/model"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/token"
)

const (
	defaultHistoryTurns  = 6
	defaultHistoryTokens = 256
	defaultCacheSize     = 1024

	// History tokens carry less signal than the current message.
	historyWeight = 0.5
)

// Turn is one prior message in the conversation, oldest first.
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Extractor computes feature vectors from the embedding spec of a loaded
// model artifact. Safe for concurrent use; the LRU cache is the only shared
// state and is itself synchronized.
type Extractor struct {
	spec  model.EmbeddingSpec
	cache *lru.Cache[string, []float64]
}

// NewExtractor creates an extractor for the given embedding spec.
func NewExtractor(spec model.EmbeddingSpec) (*Extractor, error) {
	if spec.Dim <= 0 {
		return nil, &gateerrors.InvalidConfigError{Field: "embedding.dim", Reason: "must be positive"}
	}
	if spec.HistoryTurns <= 0 {
		spec.HistoryTurns = defaultHistoryTurns
	}
	if spec.HistoryToken <= 0 {
		spec.HistoryToken = defaultHistoryTokens
	}

	cache, err := lru.New[string, []float64](defaultCacheSize)
	if err != nil {
		return nil, err
	}

	return &Extractor{spec: spec, cache: cache}, nil
}

// Dim returns the length of vectors produced by Extract.
func (e *Extractor) Dim() int {
	return e.spec.FeatureDim()
}

// Extract computes the feature vector for text with optional history context.
// Empty text after normalization fails with InvalidInputError.
func (e *Extractor) Extract(text string, history []Turn) ([]float64, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, &gateerrors.InvalidInputError{Reason: "message empty after normalization"}
	}

	bounded := e.boundHistory(history)
	key := cacheKey(normalized, bounded)
	if cached, ok := e.cache.Get(key); ok {
		out := make([]float64, len(cached))
		copy(out, cached)
		return out, nil
	}

	vec := make([]float64, e.spec.FeatureDim())

	e.hashInto(vec, normalized, 1.0)
	for _, turn := range bounded {
		if t := Normalize(turn.Text); t != "" {
			e.hashInto(vec, t, historyWeight)
		}
	}
	l2Normalize(vec[:e.spec.Dim])

	for i, lex := range e.spec.Lexicons {
		if lexiconMatches(normalized, lex) {
			vec[e.spec.Dim+i] = 1.0
		}
	}

	stored := make([]float64, len(vec))
	copy(stored, vec)
	e.cache.Add(key, stored)

	return vec, nil
}

// Normalize trims and lowercases raw message text.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// boundHistory keeps the most recent turns, capped by turn count and then by
// the token budget so feature cost stays constant for long conversations.
func (e *Extractor) boundHistory(history []Turn) []Turn {
	if len(history) > e.spec.HistoryTurns {
		history = history[len(history)-e.spec.HistoryTurns:]
	}

	budget := e.spec.HistoryToken
	kept := make([]Turn, 0, len(history))
	// Walk newest to oldest so the budget preserves recency.
	for i := len(history) - 1; i >= 0; i-- {
		cost := token.Count(history[i].Text)
		if cost > budget {
			break
		}
		budget -= cost
		kept = append(kept, history[i])
	}
	// Restore chronological order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

func (e *Extractor) hashInto(vec []float64, normalized string, weight float64) {
	tokens := tokenize(normalized)
	for i, tok := range tokens {
		vec[bucket(tok, e.spec.Dim)] += weight
		if i+1 < len(tokens) {
			vec[bucket(tok+"_"+tokens[i+1], e.spec.Dim)] += weight
		}
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

func bucket(tok string, dim int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tok))
	return int(h.Sum32() % uint32(dim))
}

func l2Normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

func lexiconMatches(normalized string, lex model.Lexicon) bool {
	for _, term := range lex.Terms {
		if term != "" && strings.Contains(normalized, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func cacheKey(normalized string, history []Turn) string {
	if len(history) == 0 {
		return normalized
	}
	var sb strings.Builder
	sb.WriteString(normalized)
	for _, turn := range history {
		sb.WriteByte(0x1f)
		sb.WriteString(turn.Speaker)
		sb.WriteByte(0x1e)
		sb.WriteString(turn.Text)
	}
	return sb.String()
}
