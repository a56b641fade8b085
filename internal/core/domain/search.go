package domain

// Retrieval policy constants.
const (
	// DefaultTopK is the result count used when none is requested.
	DefaultTopK = 5

	// MaxTopK caps the number of diversified results.
	MaxTopK = 50

	// ThresholdRatio is the fraction of the top score a document must reach
	// to survive thresholding.
	ThresholdRatio = 0.6

	// MeanWindow is the number of leading scores averaged into MeanTop5.
	MeanWindow = 5
)

// ClampTopK resolves a requested result count into [1, MaxTopK].
// Zero means unset and selects DefaultTopK; negative values become 1.
func ClampTopK(k int) int {
	switch {
	case k == 0:
		return DefaultTopK
	case k < 1:
		return 1
	case k > MaxTopK:
		return MaxTopK
	}
	return k
}

// ScoredDocument is a Document scored against one query vector.
// Similarity is cosine similarity in [-1, 1] and is never clamped.
type ScoredDocument struct {
	Document
	Similarity float64 `json:"similarity"`
}

// RetrievalStats describes one ranking pass.
type RetrievalStats struct {
	// Count is the number of documents that were scored.
	Count int `json:"count"`

	// TopSimilarity is the highest score, 0 when nothing was scored.
	TopSimilarity float64 `json:"topSim"`

	// MeanTop5 is the mean of up to the first five ranked scores.
	MeanTop5 float64 `json:"meanTop5"`

	// Median is the median of all scores, 0 when nothing was scored.
	Median float64 `json:"median"`

	// ThresholdUsed is TopSimilarity * ThresholdRatio.
	ThresholdUsed float64 `json:"thresholdUsed"`

	// FilteredCount is the length of the final result list.
	FilteredCount int `json:"filteredCount"`

	// CacheSize is the number of cached query embeddings after the call.
	CacheSize int `json:"cacheSize"`

	// CacheHit reports whether the query embedding came from the cache.
	CacheHit bool `json:"cacheHit"`
}

// RetrievalResult is the output of a full retrieval.
type RetrievalResult struct {
	Results []ScoredDocument `json:"results"`
	Stats   RetrievalStats   `json:"stats"`
}
