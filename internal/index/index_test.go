package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := s.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

func TestQueryOrdersByDistance(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"q":     {1, 0, 0},
		"near":  {1, 0.1, 0},
		"far":   {0, 1, 0},
		"exact": {2, 0, 0},
	}}
	idx := New(emb, 0)

	entries := []Entry{
		{Question: "far", Answer: "a-far"},
		{Question: "exact", Answer: "a-exact"},
		{Question: "near", Answer: "a-near"},
	}
	require.NoError(t, idx.Rebuild(context.Background(), entries))
	assert.Equal(t, 3, idx.Size())

	hits, err := idx.Query(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "a-exact", idx.Entry(hits[0].Index).Answer)
	assert.Equal(t, "a-near", idx.Entry(hits[1].Index).Answer)
	assert.Equal(t, "a-far", idx.Entry(hits[2].Index).Answer)
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)
}

func TestQueryHonorsTopK(t *testing.T) {
	idx := New(&stubEmbedder{}, 2)

	entries := []Entry{
		{Question: "a", Answer: "1"},
		{Question: "b", Answer: "2"},
		{Question: "c", Answer: "3"},
	}
	require.NoError(t, idx.Rebuild(context.Background(), entries))

	hits, err := idx.Query(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestQueryEmptyIndex(t *testing.T) {
	idx := New(&stubEmbedder{}, 0)
	hits, err := idx.Query(context.Background(), "anything")
	assert.NoError(t, err)
	assert.Nil(t, hits)
}

func TestRebuildEmptyClearsIndex(t *testing.T) {
	idx := New(&stubEmbedder{}, 0)
	require.NoError(t, idx.Rebuild(context.Background(), []Entry{{Question: "x", Answer: "y"}}))
	require.Equal(t, 1, idx.Size())

	require.NoError(t, idx.Rebuild(context.Background(), nil))
	assert.Equal(t, 0, idx.Size())
}

func TestTokenOverlapAsymmetric(t *testing.T) {
	a := []string{"ساعات", "العمل", "اليوم"}
	b := []string{"ساعات", "العمل"}

	// Full coverage of b, partial coverage of a.
	assert.Equal(t, 1.0, TokenOverlap(a, b))
	assert.InDelta(t, 2.0/3.0, TokenOverlap(b, a), 1e-9)
}

func TestTokenOverlapEmptyCandidate(t *testing.T) {
	assert.Equal(t, 0.0, TokenOverlap([]string{"x"}, nil))
}

func TestTokenOverlapDuplicateTokens(t *testing.T) {
	// Duplicates in the candidate count once.
	assert.Equal(t, 1.0, TokenOverlap([]string{"a"}, []string{"a", "a"}))
}
