/*
Package punchline is an interactive joke workshop: a language model writes a
joke, a critic (you, or a second model) judges it, and approved jokes are
saved to a catalog unless a semantically similar one is already there.

# Concept

The workflow is a small state machine (menu, generate, critique, commit and
the settings states). The Engine is stateless: it receives a Session, performs
one transition and returns a new Session, while the host (the CLI runner, a
test, a bot) handles I/O. External collaborators live behind ports:

  - Generator writes jokes (OpenAI-compatible chat APIs such as Groq).
  - Critic approves or rejects a draft (human prompt or model).
  - Embedder turns text into vectors (Voyage AI, or a local hash embedder).
  - SimilarityIndex finds the nearest saved joke (Pinecone, Redis, file, memory).
  - Catalog stores approved jokes (JSON file, SQLite, Redis, memory).

# Usage

	engine, err := punchline.New(punchline.Services{
		Generator: gen,
		Critic:    critic,
		Embedder:  memory.NewHashEmbedder(1024),
		Index:     memory.NewIndex(),
		Catalog:   memory.NewCatalog(),
	})
	if err != nil {
		log.Fatal(err)
	}

	session, _ := engine.Start(ctx, "")
	session, actions, err := engine.Navigate(ctx, session, "n")

A joke is saved only when the critic approves it and its cosine similarity
to every saved joke stays below the threshold (0.85 by default). Five
consecutive rejections end the session.

Use pkg/runner to drive an Engine from a terminal.
*/
package punchline
