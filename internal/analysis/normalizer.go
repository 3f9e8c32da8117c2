package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"
)

// minTokenRunes is the shortest token kept after tokenization.
const minTokenRunes = 2

// tokenPattern matches words, keeping dotted identifiers ("os.path", "1.2") whole.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+(?:\.?[\p{L}\p{N}_]+)*`)

// stopwords is the fixed English stop list applied to every field.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"can": {}, "for": {}, "from": {}, "have": {}, "if": {}, "in": {}, "is": {}, "it": {},
	"may": {}, "not": {}, "of": {}, "on": {}, "or": {}, "tbd": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "us": {}, "we": {}, "when": {}, "will": {}, "with": {}, "yet": {},
	"you": {}, "your": {},
}

// Term is a normalized index term and its position in the analyzed text.
// Positions are renumbered after stop-word removal so adjacent surviving
// tokens always have consecutive positions.
type Term struct {
	Text     string
	Position int
}

// Normalizer turns free text into index terms. The same Normalizer must be
// used when building the index and when parsing queries.
type Normalizer struct{}

// New returns the English normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize tokenizes, lowercases, removes stop words and stems text.
// It never fails; empty input yields no terms.
func (n *Normalizer) Normalize(text string) []Term {
	if text == "" {
		return nil
	}

	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return nil
	}

	terms := make([]Term, 0, len(tokens))
	for _, token := range tokens {
		if utf8.RuneCountInString(token) < minTokenRunes {
			continue
		}
		if IsStopword(token) {
			continue
		}
		terms = append(terms, Term{
			Text:     Stem(token),
			Position: len(terms),
		})
	}
	if len(terms) == 0 {
		return nil
	}
	return terms
}

// Terms returns only the term texts of Normalize(text), in order.
func (n *Normalizer) Terms(text string) []string {
	normalized := n.Normalize(text)
	if len(normalized) == 0 {
		return nil
	}
	out := make([]string, len(normalized))
	for i, t := range normalized {
		out[i] = t.Text
	}
	return out
}

// IsStopword reports whether a lowercased token is in the stop list.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// Stem reduces a lowercased token to its English stem.
// Tokens containing digits, dots or underscores are identifiers and are kept as is.
func Stem(token string) string {
	if strings.ContainsAny(token, "0123456789._") {
		return token
	}
	return english.Stem(token, true)
}
