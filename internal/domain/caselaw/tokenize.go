package caselaw

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// folder is stateless and safe for concurrent use.
var folder = cases.Fold()

// Tokenize splits text on whitespace after NFC normalisation and Unicode
// case folding, and trims leading and trailing punctuation from each token.
// Tokens that are pure punctuation are dropped.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	folded := folder.String(norm.NFC.String(text))
	fields := strings.Fields(folded)
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// uniqueTokens is Tokenize with duplicates removed, preserving order.
func uniqueTokens(text string) []string {
	toks := Tokenize(text)
	seen := make(map[string]struct{}, len(toks))
	out := toks[:0]
	for _, t := range toks {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

//Personal.AI order the ending
