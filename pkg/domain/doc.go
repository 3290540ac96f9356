/*
Package domain contains the core domain models of the punchline joke loop.

It defines the session record owned by the workflow engine, the persisted
Joke entity, the closed enumerations (states, menu choices, categories,
languages, critic verdicts) and the error kinds the engine reports. This
package is kept pure and free of I/O, following the hexagonal layout used by
the rest of the module.

# Key Entities

  - Session: the single mutable record of one interactive run.
  - Joke: an immutable accepted joke, created only at commit time.
  - Vector: an embedding, compared with CosineSimilarity.
  - ActionRequest: a structural representation of what the host should render.
*/
package domain
