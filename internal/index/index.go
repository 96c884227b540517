// Package index holds the in-memory similarity index over the FAQ corpus:
// parallel arrays of questions, answers and token sets plus one embedding
// vector per question, searched by brute-force cosine distance.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// DefaultTopK bounds how many neighbors a query returns when no explicit
// limit is configured.
const DefaultTopK = 5

// Embedder produces one vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Entry is one indexed question with its stored answer text (answer lines
// joined by newline) and derived token set.
type Entry struct {
	Question string
	Answer   string
	Tokens   []string
}

// Hit is one query result: the entry index and its cosine distance.
type Hit struct {
	Index    int
	Distance float64
}

// Index is rebuilt in full after every corpus write; there is no incremental
// update path. All methods are safe for concurrent use.
type Index struct {
	mu       sync.RWMutex
	embedder Embedder
	topK     int
	entries  []Entry
	vectors  [][]float32
}

func New(embedder Embedder, topK int) *Index {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Index{embedder: embedder, topK: topK}
}

// Rebuild recomputes embeddings for every question and replaces the fitted
// index. O(n) in corpus size.
func (idx *Index) Rebuild(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		idx.mu.Lock()
		idx.entries = nil
		idx.vectors = nil
		idx.mu.Unlock()
		return nil
	}

	questions := make([]string, len(entries))
	for i, e := range entries {
		questions[i] = e.Question
	}

	vectors, err := idx.embedder.Embed(ctx, questions)
	if err != nil {
		return fmt.Errorf("failed to embed corpus: %w", err)
	}
	if len(vectors) != len(entries) {
		return fmt.Errorf("embedder returned %d vectors for %d questions", len(vectors), len(entries))
	}

	idx.mu.Lock()
	idx.entries = entries
	idx.vectors = vectors
	idx.mu.Unlock()
	return nil
}

// Size returns the number of indexed questions.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Entry returns the indexed entry at i.
func (idx *Index) Entry(i int) Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.entries[i]
}

// Query embeds the text and returns up to min(topK, n) nearest neighbors
// ordered by ascending cosine distance.
func (idx *Index) Query(ctx context.Context, text string) ([]Hit, error) {
	idx.mu.RLock()
	n := len(idx.entries)
	idx.mu.RUnlock()
	if n == 0 {
		return nil, nil
	}

	vecs, err := idx.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vecs))
	}
	queryVec := vecs[0]

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]Hit, len(idx.vectors))
	for i, v := range idx.vectors {
		hits[i] = Hit{Index: i, Distance: 1 - cosineSimilarity(queryVec, v)}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	k := idx.topK
	if len(hits) < k {
		k = len(hits)
	}
	return hits[:k], nil
}

// TokenOverlap scores |a ∩ b| / max(|b|, 1). Deliberately asymmetric: it
// measures how much of the candidate b is covered, not symmetric Jaccard.
func TokenOverlap(a, b []string) float64 {
	if len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	matched := 0
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(seen))
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
