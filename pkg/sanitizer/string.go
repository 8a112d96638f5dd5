package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else if unicode.IsControl(r) {
			continue
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeLabel(label string) string {
	return Pipeline{TrimAndNormalize, strings.ToLower}.Apply(label)
}

func NormalizeEmail(email string) string {
	return Pipeline{strings.TrimSpace, strings.ToLower}.Apply(email)
}

// NormalizeCode upper-cases human-facing codes such as booking numbers.
func NormalizeCode(code string) string {
	return Pipeline{strings.TrimSpace, strings.ToUpper}.Apply(code)
}
