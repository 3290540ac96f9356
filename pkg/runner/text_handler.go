package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/punchline/pkg/domain"
)

// DefaultPrompt is printed before reading input when the state gives no prompt.
const DefaultPrompt = "> "

// SystemPrefix marks status lines in the text output.
const SystemPrefix = ">>> "

// TextHandler talks to a terminal. Content and notices are printed as lines
// and answers are read one line at a time. An answer that fails CleanAnswer
// is reported and asked for again.
type TextHandler struct {
	Writer   io.Writer
	Renderer ContentRenderer

	// AnswerLimit caps one answer in bytes; zero uses DefaultAnswerLimit.
	AnswerLimit int

	reader *bufio.Reader

	mu     sync.Mutex
	prompt string

	start   sync.Once
	lines   chan string
	readErr error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithAnswerLimit caps the size of one answer.
func WithAnswerLimit(n int) TextHandlerOption {
	return func(h *TextHandler) {
		h.AnswerLimit = n
	}
}

// NewTextHandler creates a handler reading r and writing w (stdin/stdout when nil).
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{reader: bufio.NewReader(r), Writer: w}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// readLines feeds lines to Input until the reader fails, then records the
// error and closes the channel. It outlives a cancelled Input, so a line typed
// during an interrupted read is delivered to the next one.
func (h *TextHandler) readLines() {
	defer close(h.lines)
	for {
		line, err := h.reader.ReadString('\n')
		if line != "" {
			h.lines <- line
		}
		if err != nil {
			h.readErr = err
			return
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, actions []domain.ActionRequest) (bool, error) {
	req, needsInput := requestedInput(actions)
	if needsInput {
		h.mu.Lock()
		h.prompt = req.Prompt
		h.mu.Unlock()
	}

	for _, act := range actions {
		text, ok := act.Payload.(string)
		if !ok {
			continue
		}
		var err error
		switch act.Type {
		case domain.ActionRenderContent:
			err = h.writeContent(text)
		case domain.ActionSystemMessage:
			err = h.SystemOutput(ctx, text)
		}
		if err != nil {
			return false, err
		}
	}
	return needsInput, nil
}

// writeContent prints a joke or menu block, rendered when a renderer is set.
func (h *TextHandler) writeContent(text string) error {
	if h.Renderer != nil {
		if rendered, err := h.Renderer(text); err == nil {
			text = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(text))
	return err
}

// Input prints the pending prompt and returns the next clean answer.
// It returns the reader's error (io.EOF at end of input) once all lines are consumed.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.start.Do(func() {
		h.lines = make(chan string)
		go h.readLines()
	})

	h.mu.Lock()
	prompt := h.prompt
	h.prompt = ""
	h.mu.Unlock()
	if prompt == "" {
		prompt = DefaultPrompt
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(h.Writer, prompt)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case line, ok := <-h.lines:
			if !ok {
				return "", h.readErr
			}
			answer, err := CleanAnswer(line, h.AnswerLimit)
			if err != nil {
				fmt.Fprintf(h.Writer, "Invalid answer: %v. Please try again.\n", err)
				continue
			}
			return answer, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "%s%s\n", SystemPrefix, msg)
	return err
}
