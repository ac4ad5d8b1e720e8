package commitmsg

import (
	"strings"
	"unicode"
)

// NormalizeSubject trims a candidate subject line, folds embedded newlines
// into spaces, and drops a single trailing period when it follows a word
// character. Normalizing an already-normalized subject is a no-op.
func NormalizeSubject(subject string) string {
	subject = strings.TrimSpace(subject)
	if strings.ContainsAny(subject, "\r\n") {
		fields := strings.FieldsFunc(subject, func(r rune) bool {
			return r == '\r' || r == '\n'
		})
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
		subject = strings.Join(fields, " ")
	}

	runes := []rune(subject)
	n := len(runes)
	if n >= 2 && runes[n-1] == '.' && isWordRune(runes[n-2]) {
		subject = string(runes[:n-1])
	}
	return subject
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// DedupSubjects normalizes each candidate and removes duplicates, preserving
// first-occurrence order. Empty candidates are dropped.
func DedupSubjects(candidates []string) []string {
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = NormalizeSubject(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
