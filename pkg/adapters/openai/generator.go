package openai

import (
	"context"
	"strings"
	"unicode"

	"github.com/aretw0/punchline/pkg/domain"
)

const (
	// WriterTemperature keeps the writer creative.
	WriterTemperature = 0.95
	// CriticTemperature keeps the judge consistent.
	CriticTemperature = 0.1
)

// Generator implements ports.Generator on top of a Client.
type Generator struct {
	Client      *Client
	Temperature float64
}

// NewGenerator creates a Generator with the writer temperature.
func NewGenerator(client *Client) *Generator {
	return &Generator{Client: client, Temperature: WriterTemperature}
}

// Generate returns the model's joke for prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.Client.Complete(ctx, prompt, g.Temperature)
}

// Critic implements ports.Critic by asking the model for a yes/no verdict.
type Critic struct {
	Client       *Client
	Instructions string
	Temperature  float64
}

// NewCritic creates a Critic with the critic temperature.
func NewCritic(client *Client, instructions string) *Critic {
	return &Critic{Client: client, Instructions: instructions, Temperature: CriticTemperature}
}

// Critique asks the model whether joke is funny.
// Answers other than yes/no map to domain.VerdictInvalid.
func (c *Critic) Critique(ctx context.Context, joke string) (domain.Verdict, error) {
	answer, err := c.Client.Complete(ctx, c.prompt(joke), c.Temperature)
	if err != nil {
		return "", err
	}
	return domain.ParseVerdict(firstWord(answer)), nil
}

func (c *Critic) prompt(joke string) string {
	var b strings.Builder
	if c.Instructions != "" {
		b.WriteString(c.Instructions)
		b.WriteString("\n\n")
	}
	b.WriteString("Joke:\n")
	b.WriteString(joke)
	b.WriteString("\n\nIs this joke funny? Answer with a single word: yes or no.")
	return b.String()
}

func firstWord(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
