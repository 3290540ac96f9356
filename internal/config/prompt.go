package config

import (
	"fmt"
	"strings"

	"github.com/aretw0/punchline/pkg/domain"
)

// PromptTemplate is a structured prompt as written in the YAML config.
type PromptTemplate struct {
	Role        string   `yaml:"role"`
	Instruction string   `yaml:"instruction"`
	Constraints []string `yaml:"constraints"`
	Style       string   `yaml:"style"`
	Goal        string   `yaml:"goal"`
	Examples    []string `yaml:"examples"`
}

// Prompts holds the writer and critic templates.
type Prompts struct {
	JokeWriter PromptTemplate `yaml:"joke_writer"`
	JokeCritic PromptTemplate `yaml:"joke_critic"`
}

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() Prompts {
	return Prompts{
		JokeWriter: PromptTemplate{
			Role:        "You are a stand-up comedy writer who specialises in short, clean jokes.",
			Instruction: "Write exactly one new joke.",
			Constraints: []string{
				"Reply with the joke only, no introduction or explanation.",
				"Keep it under three sentences.",
				"Do not repeat well-known jokes word for word.",
			},
			Style: "Witty and light, with a clear setup and punchline.",
			Goal:  "Make the reader laugh or at least groan.",
		},
		JokeCritic: PromptTemplate{
			Role:        "You are a demanding comedy critic.",
			Instruction: "Decide whether the joke below is funny enough to keep.",
			Constraints: []string{
				"Reject jokes that are offensive, confusing or have no punchline.",
			},
			Goal: "Only let genuinely funny jokes through.",
		},
	}
}

// Build renders the template as prompt text, one section per paragraph.
// Empty sections are left out.
func (p PromptTemplate) Build() string {
	var sections []string
	add := func(label, text string) {
		if text = strings.TrimSpace(text); text != "" {
			if label != "" {
				text = label + ": " + text
			}
			sections = append(sections, text)
		}
	}

	add("", p.Role)
	add("", p.Instruction)
	if len(p.Constraints) > 0 {
		sections = append(sections, "Constraints:\n- "+strings.Join(p.Constraints, "\n- "))
	}
	add("Style", p.Style)
	add("Goal", p.Goal)
	if len(p.Examples) > 0 {
		sections = append(sections, "Examples:\n- "+strings.Join(p.Examples, "\n- "))
	}
	return strings.Join(sections, "\n\n")
}

// WriterPrompt builds the writer prompt for a category and language.
func (c *Config) WriterPrompt(category domain.Category, language domain.Language) string {
	return fmt.Sprintf("%s\n\nThe language is: %s\n\nThe category is: %s",
		c.Prompts.JokeWriter.Build(), language, category)
}

// CriticInstructions is the preamble of the automated critic prompt.
func (c *Config) CriticInstructions() string {
	return c.Prompts.JokeCritic.Build()
}
