package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// at returns a unit vector whose cosine against [1, 0] is sim.
func at(sim float64) []float64 {
	return []float64{sim, math.Sqrt(1 - sim*sim)}
}

var axis = []float64{1, 0}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"scale invariant", []float64{1, 1}, []float64{5, 5}, 1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"empty", nil, []float64{1}, 0},
		{"length mismatch uses shared prefix", []float64{1, 0}, []float64{1, 0, 7}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineSimilarity_Bounds(t *testing.T) {
	vecs := [][]float64{
		{0.1, 0.2, 0.3}, {-4, 2, 9}, {1e-8, 1e-8, 1e-8}, {1e150, 1e150, 1e150}, {3, -3, 0},
	}
	for _, a := range vecs {
		for _, b := range vecs {
			sim := CosineSimilarity(a, b)
			assert.False(t, math.IsNaN(sim))
			assert.GreaterOrEqual(t, sim, -1.0)
			assert.LessOrEqual(t, sim, 1.0)
		}
	}
}

func TestRank_SortsAndSkipsMissingEmbeddings(t *testing.T) {
	corpus := []domain.Document{
		doc("low", "A", "W1", at(0.2)...),
		doc("none", "B", "W2"),
		doc("high", "C", "W3", at(0.9)...),
		doc("mid", "D", "W4", at(0.5)...),
	}

	ranked, stats := Rank(axis, corpus)

	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].ID)
	assert.Equal(t, "mid", ranked[1].ID)
	assert.Equal(t, "low", ranked[2].ID)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 0.9, stats.TopSimilarity, 1e-9)
	assert.InDelta(t, 0.5, stats.Median, 1e-9)
	assert.InDelta(t, (0.9+0.5+0.2)/3, stats.MeanTop5, 1e-9)
}

func TestRank_TiesKeepCorpusOrder(t *testing.T) {
	corpus := []domain.Document{
		doc("first", "A", "W", 1, 0),
		doc("second", "B", "W", 2, 0),
		doc("third", "C", "W", 3, 0),
	}

	ranked, _ := Rank(axis, corpus)

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}

func TestRank_Deterministic(t *testing.T) {
	corpus := []domain.Document{
		doc("a", "A", "W", at(0.3)...),
		doc("b", "B", "W", at(0.7)...),
		doc("c", "C", "W", at(0.7)...),
	}
	first, s1 := Rank(axis, corpus)
	second, s2 := Rank(axis, corpus)
	assert.Equal(t, first, second)
	assert.Equal(t, s1, s2)
}

func TestRank_EmptyCorpus(t *testing.T) {
	ranked, stats := Rank(axis, nil)
	assert.Empty(t, ranked)
	assert.Equal(t, domain.RetrievalStats{}, stats)
}

func TestComputeStats_EvenMedianAndMeanWindow(t *testing.T) {
	sims := []float64{0.9, 0.8, 0.7, 0.6, 0.5, 0.4}
	ranked := make([]domain.ScoredDocument, len(sims))
	for i, s := range sims {
		ranked[i] = domain.ScoredDocument{Similarity: s}
	}

	stats := computeStats(ranked)

	assert.Equal(t, 6, stats.Count)
	assert.InDelta(t, 0.9, stats.TopSimilarity, 1e-12)
	assert.InDelta(t, 0.7, stats.MeanTop5, 1e-12)
	assert.InDelta(t, 0.65, stats.Median, 1e-12)
}

func TestSelectTopK_ThresholdDropsWeakMatches(t *testing.T) {
	corpus := []domain.Document{
		doc("p1", "Euclid", "Optics", at(0.91)...),
		doc("p2", "George Berkeley", "New Theory of Vision", at(0.88)...),
		doc("p3", "Hermann von Helmholtz", "Sensations of Tone", at(0.40)...),
	}
	ranked, stats := Rank(axis, corpus)

	results, stats := SelectTopK(ranked, stats, 5)

	require.Len(t, results, 2)
	assert.Equal(t, "p1", results[0].ID)
	assert.Equal(t, "p2", results[1].ID)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 2, stats.FilteredCount)
	assert.InDelta(t, 0.91, stats.TopSimilarity, 1e-9)
	assert.InDelta(t, 0.546, stats.ThresholdUsed, 1e-9)
}

func TestSelectTopK_DiversifiesByAuthorAndWork(t *testing.T) {
	var corpus []domain.Document
	for i, sim := range []float64{0.95, 0.94, 0.93, 0.92, 0.91} {
		corpus = append(corpus, doc(string(rune('a'+i)), "Euclid", "Optics", at(sim)...))
	}
	ranked, stats := Rank(axis, corpus)

	results, stats := SelectTopK(ranked, stats, 5)

	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, 1, stats.FilteredCount)
}

func TestSelectTopK_DiversityKeyIgnoresCase(t *testing.T) {
	corpus := []domain.Document{
		doc("a", "Euclid", "Optics", at(0.9)...),
		doc("b", "EUCLID", "optics", at(0.85)...),
		doc("c", "Euclid", "Elements", at(0.8)...),
	}
	ranked, stats := Rank(axis, corpus)

	results, _ := SelectTopK(ranked, stats, 5)

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "c", results[1].ID)
}

func TestSelectTopK_RespectsK(t *testing.T) {
	var corpus []domain.Document
	for i := 0; i < 10; i++ {
		corpus = append(corpus, doc(string(rune('a'+i)), "Author", string(rune('A'+i)), at(0.9-float64(i)*0.01)...))
	}
	ranked, stats := Rank(axis, corpus)

	results, stats := SelectTopK(ranked, stats, 3)
	assert.Len(t, results, 3)
	assert.Equal(t, 3, stats.FilteredCount)

	results, _ = SelectTopK(ranked, stats, 0)
	assert.Len(t, results, domain.DefaultTopK)

	results, _ = SelectTopK(ranked, stats, 500)
	assert.Len(t, results, 10)
}

func TestSelectTopK_NegativeTopFallsBackToFullRanking(t *testing.T) {
	corpus := []domain.Document{
		doc("a", "A", "W", -0.2, 0.9797958971132712),
		doc("b", "B", "W", -0.5, 0.8660254037844386),
	}
	ranked, stats := Rank(axis, corpus)

	results, stats := SelectTopK(ranked, stats, 5)

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.InDelta(t, -0.12, stats.ThresholdUsed, 1e-9)
	assert.Equal(t, 2, stats.FilteredCount)
}

func TestSelectTopK_Empty(t *testing.T) {
	results, stats := SelectTopK(nil, domain.RetrievalStats{}, 5)
	assert.Empty(t, results)
	assert.Equal(t, 0, stats.FilteredCount)
	assert.Equal(t, 0.0, stats.ThresholdUsed)
}

func TestSelectTopK_DoesNotAliasInput(t *testing.T) {
	ranked := []domain.ScoredDocument{
		{Document: doc("a", "A", "W"), Similarity: 0.9},
		{Document: doc("b", "B", "W"), Similarity: 0.8},
	}
	results, _ := SelectTopK(ranked, domain.RetrievalStats{TopSimilarity: 0.9}, 5)
	results[0].Similarity = 0

	assert.Equal(t, 0.9, ranked[0].Similarity)
}

func TestSelectTopK_NegativeKReturnsOne(t *testing.T) {
	var corpus []domain.Document
	for i := 0; i < 10; i++ {
		corpus = append(corpus, doc(string(rune('a'+i)), "Author", string(rune('A'+i)), at(0.9-float64(i)*0.01)...))
	}
	ranked, stats := Rank(axis, corpus)

	for _, k := range []int{-1, -3, -1000} {
		results, stats := SelectTopK(ranked, stats, k)
		require.Len(t, results, 1, "k=%d", k)
		assert.Equal(t, "a", results[0].ID)
		assert.Equal(t, 1, stats.FilteredCount)
	}
}

func TestRankContext_Cancelled(t *testing.T) {
	corpus := make([]domain.Document, 3*rankCheckInterval)
	for i := range corpus {
		corpus[i] = doc("d", "A", "W", at(0.5)...)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ranked, stats, err := RankContext(ctx, axis, corpus)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, ranked)
	assert.Zero(t, stats.Count)

	ranked, stats, err = RankContext(context.Background(), axis, corpus)
	require.NoError(t, err)
	assert.Len(t, ranked, len(corpus))
	assert.Equal(t, len(corpus), stats.Count)
}
