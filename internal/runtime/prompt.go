package runtime

import (
	"fmt"

	"github.com/aretw0/punchline/pkg/domain"
)

// PromptBuilder assembles the writer prompt for a category and language.
type PromptBuilder func(category domain.Category, language domain.Language) string

// DefaultPrompt is used when no template is configured.
func DefaultPrompt(category domain.Category, language domain.Language) string {
	return fmt.Sprintf(
		"You are a comedy writer. Write one short, original joke and reply with the joke only.\n\nThe language is: %s\n\nThe category is: %s",
		language, category,
	)
}
