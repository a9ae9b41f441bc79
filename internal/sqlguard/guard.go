// Package sqlguard decides whether a SQL statement is safe to hand to the
// rest of the translation pipeline. The statement comes from a language
// model, so it is treated exactly like user input.
package sqlguard

import (
	"fmt"
	"strings"
	"unicode"
)

// Verdict is the outcome of a safety check.
type Verdict struct {
	Safe   bool
	Reason string
}

// Keywords that must never appear anywhere in an accepted statement.
// Matching is per word, not per substring, so a column named created_date
// does not trip the CREATE check.
var blockedKeywords = map[string]struct{}{
	"DELETE":   {},
	"INSERT":   {},
	"UPDATE":   {},
	"DROP":     {},
	"ALTER":    {},
	"CREATE":   {},
	"TRUNCATE": {},
	"EXEC":     {},
	"EXECUTE":  {},
	"INTO":     {},
	"VALUES":   {},
}

// Validate reports whether text is a single safe SELECT statement. It is a
// pure function of the text; the pipeline calls it once on entry and once
// more right before plan execution, with identical logic both times.
func Validate(text string) Verdict {
	trimmed := strings.TrimSpace(text)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	if trimmed == "" {
		return Verdict{Safe: false, Reason: "empty statement"}
	}
	if strings.ContainsRune(trimmed, ';') {
		return Verdict{Safe: false, Reason: "multiple statements are not allowed"}
	}

	words := splitWords(trimmed)
	if len(words) == 0 || !strings.EqualFold(words[0], "SELECT") {
		return Verdict{Safe: false, Reason: "only SELECT statements are allowed"}
	}
	for _, word := range words {
		if _, blocked := blockedKeywords[strings.ToUpper(word)]; blocked {
			return Verdict{Safe: false, Reason: fmt.Sprintf("statement contains blocked keyword %s", strings.ToUpper(word))}
		}
	}
	return Verdict{Safe: true}
}

// splitWords breaks text into identifier-like words. Word characters are
// letters, digits and underscore; everything else is a boundary.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder
	for _, r := range text {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}
