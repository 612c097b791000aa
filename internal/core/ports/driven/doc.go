// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Ingestion Path
//
//   - DocumentLoader: Reads supported files from a directory into Documents
//   - Normaliser / NormaliserRegistry: Decode one file format into Documents
//   - Chunker: Splits Documents into overlapping Chunks
//   - EmbeddingService: Maps text to fixed-length vectors
//   - VectorStore: Persists IndexedEntries and answers top-k queries
//
// # Query Path
//
//   - EmbeddingService and VectorStore, as above
//   - LLMService: The chat model that writes the final answer
//   - PromptStore: User-editable prompt templates
//
// # Configuration
//
//   - ConfigStore: Persisted settings (TOML)
//   - AIConfigValidator: Connectivity checks for configured providers
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
