package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf, WithTextHandlerRenderer(func(s string) (string, error) {
		return "Rendered: " + s, nil
	}))

	actions := []domain.ActionRequest{
		domain.Content("Hello World"),
		domain.Notice("saved"),
		domain.AskFor(domain.InputRequest{Type: domain.InputText}),
	}

	needsInput, err := handler.Output(context.Background(), actions)
	require.NoError(t, err)
	assert.True(t, needsInput)
	assert.Equal(t, "Rendered: Hello World\n>>> saved\n", outBuf.String())
}

func TestTextHandler_OutputWithoutInput(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)

	needsInput, err := handler.Output(context.Background(), []domain.ActionRequest{domain.Content("  padded  \n")})
	require.NoError(t, err)
	assert.False(t, needsInput)
	assert.Equal(t, "padded\n", outBuf.String())
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("  my user input  \nsecond"), outBuf)

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my user input", val)
	assert.Equal(t, DefaultPrompt, outBuf.String())

	val, err = handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", val, "a last line without newline is still read")

	_, err = handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_InputUsesRequestedPrompt(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("2\n1\n"), outBuf)
	ctx := context.Background()

	_, err := handler.Output(ctx, []domain.ActionRequest{
		domain.AskFor(domain.InputRequest{Type: domain.InputText, Prompt: "Select Category [0=a]: "}),
	})
	require.NoError(t, err)

	_, err = handler.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Select Category [0=a]: ", outBuf.String())

	outBuf.Reset()
	_, err = handler.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPrompt, outBuf.String(), "the prompt is consumed by one read")
}

func TestTextHandler_InputCleansAnswers(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("way too long input\nye\x1bs\n"), outBuf, WithAnswerLimit(8))

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "yes", val)
	assert.Contains(t, outBuf.String(), "Invalid answer: answer too long")
	assert.Equal(t, 2, strings.Count(outBuf.String(), DefaultPrompt), "the prompt is repeated after a bad answer")
}

func TestTextHandler_ReadErrorEndsInput(t *testing.T) {
	r := io.MultiReader(strings.NewReader("n\n"), iotest.ErrReader(assert.AnError))
	handler := NewTextHandler(r, io.Discard)

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "n", val)

	for range 2 {
		_, err = handler.Input(context.Background())
		assert.ErrorIs(t, err, assert.AnError, "a failed reader is not read again")
	}
}

func TestTextHandler_InputCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	handler := NewTextHandler(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
