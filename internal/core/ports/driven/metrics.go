package driven

import "time"

// MetricsRecorder receives retrieval telemetry.
type MetricsRecorder interface {
	// ObserveRetrieval records one retrieval with its outcome label
	// ("ok", "invalid", "embedding_error", "corpus_error").
	ObserveRetrieval(outcome string, elapsed time.Duration)

	// ObserveCache records an embedding cache lookup.
	ObserveCache(hit bool)

	// SetCorpusSize records the number of documents scored.
	SetCorpusSize(n int)
}
