package punchline_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/punchline"
	"github.com/aretw0/punchline/pkg/adapters/memory"
	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
)

// ExampleNew drives one approve-and-save round with in-memory adapters.
// The writer and critic are plain functions, so no API keys are needed.
func ExampleNew() {
	catalog := memory.NewCatalog()
	engine, err := punchline.New(punchline.Services{
		Generator: ports.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "I would tell you a UDP joke, but you might not get it.", nil
		}),
		Critic: ports.CriticFunc(func(ctx context.Context, joke string) (domain.Verdict, error) {
			return domain.VerdictApprove, nil
		}),
		Embedder: memory.NewHashEmbedder(64),
		Index:    memory.NewIndex(),
		Catalog:  catalog,
	}, punchline.WithPolicy(punchline.Policy{Dimension: 64}))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	session, err := engine.Start(ctx, "example")
	if err != nil {
		log.Fatal(err)
	}

	// "n" leaves the menu; generate, critique and commit then run without input.
	input := "n"
	for session.Current != domain.StateMenu || input != "" {
		session, _, err = engine.Navigate(ctx, session, input)
		if err != nil {
			log.Fatal(err)
		}
		input = ""
	}

	fmt.Println("Saved:", catalog.Len())
	fmt.Println("Path:", session.History)
	// Output:
	// Saved: 1
	// Path: [menu generate critique commit menu]
}
