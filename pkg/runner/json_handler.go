package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/punchline/pkg/domain"
)

// JSONHandler drives a session over JSON Lines for scripts and bots.
// Every Output call writes one array of actions. Every answer is one line,
// either a JSON string ("n") or bare text (n).
type JSONHandler struct {
	// AnswerLimit caps one answer in bytes; zero uses DefaultAnswerLimit.
	AnswerLimit int

	reader *bufio.Reader
	enc    *json.Encoder
}

// NewJSONHandler creates a handler reading r and writing w (stdin/stdout when nil).
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{reader: bufio.NewReader(r), enc: json.NewEncoder(w)}
}

func (h *JSONHandler) Output(ctx context.Context, actions []domain.ActionRequest) (bool, error) {
	if len(actions) == 0 {
		return false, nil
	}
	if err := h.enc.Encode(actions); err != nil {
		return false, err
	}
	_, needsInput := requestedInput(actions)
	return needsInput, nil
}

// Input blocks on the next line; a cancelled ctx is only noticed before reading.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line, err := h.reader.ReadString('\n')
	if line == "" && err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, `"`) {
		var quoted string
		if json.Unmarshal([]byte(line), &quoted) == nil {
			line = quoted
		}
	}
	return CleanAnswer(line, h.AnswerLimit)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.enc.Encode([]domain.ActionRequest{domain.Notice(msg)})
}
