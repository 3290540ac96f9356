package runner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultAnswerLimit caps one answer in bytes. Menu keys, list indexes and
// yes/no verdicts are a few bytes long.
const DefaultAnswerLimit = 256

var (
	ErrAnswerTooLong = errors.New("answer too long")
	ErrInvalidUTF8   = errors.New("answer is not valid UTF-8")
)

// CleanAnswer trims one line of user input and removes control characters,
// so terminal escape sequences never reach the engine. A non-positive limit
// uses DefaultAnswerLimit.
func CleanAnswer(line string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultAnswerLimit
	}
	line = strings.TrimSpace(line)
	if len(line) > limit {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrAnswerTooLong, len(line), limit)
	}
	if !utf8.ValidString(line) {
		return "", ErrInvalidUTF8
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, line), nil
}
