package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the theme a joke is written for.
type Category string

const (
	CategoryDadDeveloper         Category = "dad developer"
	CategoryChuckNorrisDeveloper Category = "chuck norris developer"
	CategoryGeneral              Category = "general"
)

// Language is the ISO 639-1 code a joke is written in.
type Language string

const (
	LanguageEnglish Language = "en"
)

// DefaultCategory and DefaultLanguage seed every new session.
const (
	DefaultCategory = CategoryGeneral
	DefaultLanguage = LanguageEnglish
)

// Categories is the ordered closed set of supported categories.
var Categories = []Category{
	CategoryDadDeveloper,
	CategoryChuckNorrisDeveloper,
	CategoryGeneral,
}

// Languages is the ordered closed set of supported language codes.
var Languages = []Language{
	"cs", "de", "en", "es", "eu", "fr", "gl", "hu", "it", "lt", "pl", "ru", "sv",
}

// SelectIndex parses a numeric menu selection into a zero-based index of a list of size n.
func SelectIndex(field, input string, n int) (int, error) {
	raw := strings.TrimSpace(input)
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: field, Input: raw, Reason: "not a number"}
	}
	if idx < 0 || idx >= n {
		return 0, &ValidationError{Field: field, Input: raw, Reason: fmt.Sprintf("expected 0..%d", n-1)}
	}
	return idx, nil
}

// Legend renders an ordered list as "0=a, 1=b, ...".
func Legend[T ~string](items []T) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%d=%s", i, item)
	}
	return strings.Join(parts, ", ")
}
