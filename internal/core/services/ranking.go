package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// CosineSimilarity returns dot(a,b) / (|a| * |b|) over the shared prefix
// of a and b. It returns 0 when either norm is zero and never NaN.
// Rounding drift outside [-1, 1] is pinned to the bound.
func CosineSimilarity(a, b []float64) float64 {
	n := min(len(a), len(b))

	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := a[i], b[i]
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	switch {
	case math.IsNaN(sim) || math.IsInf(sim, 0):
		return 0
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	}
	return sim
}

// Rank scores every document with an embedding against query and sorts
// the result by similarity, highest first. Documents without an
// embedding are dropped. Equal scores keep corpus order.
//
// The returned stats describe the full scored set; ThresholdUsed and
// FilteredCount are filled in by SelectTopK.
func Rank(query []float64, corpus []domain.Document) ([]domain.ScoredDocument, domain.RetrievalStats) {
	ranked, stats, _ := RankContext(context.Background(), query, corpus)
	return ranked, stats
}

// rankCheckInterval is how many documents are scored between ctx checks.
const rankCheckInterval = 256

// RankContext is Rank with cancellation. The scan stops at the next
// check after ctx is done and returns ctx.Err() with no results.
func RankContext(
	ctx context.Context, query []float64, corpus []domain.Document,
) ([]domain.ScoredDocument, domain.RetrievalStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.RetrievalStats{}, err
	}

	ranked := make([]domain.ScoredDocument, 0, len(corpus))
	for i, doc := range corpus {
		if (i+1)%rankCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, domain.RetrievalStats{}, err
			}
		}
		if !doc.HasEmbedding() {
			continue
		}
		ranked = append(ranked, domain.ScoredDocument{
			Document:   doc,
			Similarity: CosineSimilarity(query, doc.Embedding),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	return ranked, computeStats(ranked), nil
}

func computeStats(ranked []domain.ScoredDocument) domain.RetrievalStats {
	stats := domain.RetrievalStats{Count: len(ranked)}
	if len(ranked) == 0 {
		return stats
	}

	stats.TopSimilarity = ranked[0].Similarity

	window := min(domain.MeanWindow, len(ranked))
	var sum float64
	for _, s := range ranked[:window] {
		sum += s.Similarity
	}
	stats.MeanTop5 = sum / float64(max(1, window))

	values := make([]float64, len(ranked))
	for i, s := range ranked {
		values[i] = s.Similarity
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		stats.Median = values[mid]
	} else {
		stats.Median = (values[mid-1] + values[mid]) / 2
	}

	return stats
}

// DiversityKey identifies the source of a document for diversification.
func DiversityKey(doc domain.Document) string {
	return strings.ToLower(doc.Author + "::" + doc.Work)
}

// SelectTopK narrows a ranking to at most k source-diverse results.
//
// Documents scoring below TopSimilarity * ThresholdRatio are dropped,
// unless that would drop all of them. The survivors are walked in rank
// order keeping the first document per DiversityKey until k are held.
// k is resolved with domain.ClampTopK.
func SelectTopK(
	ranked []domain.ScoredDocument, stats domain.RetrievalStats, k int,
) ([]domain.ScoredDocument, domain.RetrievalStats) {
	k = domain.ClampTopK(k)
	threshold := stats.TopSimilarity * domain.ThresholdRatio

	base := make([]domain.ScoredDocument, 0, len(ranked))
	for _, s := range ranked {
		if s.Similarity >= threshold {
			base = append(base, s)
		}
	}
	if len(base) == 0 {
		base = ranked
	}

	seen := make(map[string]struct{}, k)
	results := make([]domain.ScoredDocument, 0, min(k, len(base)))
	for _, s := range base {
		key := DiversityKey(s.Document)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, s)
		if len(results) >= k {
			break
		}
	}
	if len(results) == 0 {
		results = append(results, base[:min(k, len(base))]...)
	}

	stats.ThresholdUsed = threshold
	stats.FilteredCount = len(results)
	return results, stats
}
