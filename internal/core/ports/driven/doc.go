// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Turns text into vectors (hash, Ollama, OpenAI)
//   - CorpusStore: Persisted passages with embeddings (SQLite, Postgres, memory)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ControlMapper: Results to visual/audio patch. Defaults to the topic mapper.
//   - MetricsRecorder: Retrieval telemetry. Nil disables metrics.
//   - ContentLoader, Normaliser, PostProcessor: Only needed for ingestion.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
