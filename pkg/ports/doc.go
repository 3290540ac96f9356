/*
Package ports defines the driven ports (interfaces) of the punchline engine.

These interfaces decouple the workflow core from external implementations,
allowing the engine to work with any language model, embedding provider,
vector index or catalog backend.

# Key Interfaces

  - Generator / Critic: opaque text collaborators (LLM writer, human or LLM critic).
  - Embedder: converts text into a fixed-dimension vector.
  - SimilarityIndex: nearest-neighbour store over committed joke vectors.
  - Catalog: append-only durable log of accepted jokes.
  - Locker: optional single-writer guarantee around commits.
*/
package ports
