package domain

import (
	"strings"
	"unicode/utf8"
)

// FormatName title-cases a name: each space-delimited token gets its first
// byte upper-cased and the rest lower-cased. Connector words ("da", "de")
// are treated like any other token; upstream sources ship names in
// inconsistent casing and this normalization is applied uniformly.
func FormatName(name string) string {
	tokens := strings.Split(name, " ")
	for i, tok := range tokens {
		if tok == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(tok)
		tokens[i] = strings.ToUpper(string(first)) + strings.ToLower(tok[size:])
	}
	return strings.Join(tokens, " ")
}

// FormatBirthDate rewrites YYYY-MM-DD into DD/MM/YYYY. Input without a
// hyphen is returned unchanged: it is either already in the display layout
// or unrecognized, and reformatting is best-effort, not validation.
func FormatBirthDate(date string) string {
	if !strings.Contains(date, "-") {
		return date
	}
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
