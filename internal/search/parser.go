package search

import (
	"strings"
	"unicode"

	"docsearch/internal/analysis"
	"docsearch/internal/storage"
)

// Query is a parsed query string.
type Query struct {
	Clauses []storage.Clause
}

// Empty reports whether the query has nothing to match.
func (q Query) Empty() bool {
	for _, c := range q.Clauses {
		if c.Occur != storage.MustNot {
			return false
		}
	}
	return true
}

// Parser turns query strings into clauses using the index normalizer.
//
// Syntax:
//
//	word        optional term; matching more terms scores higher
//	+word       required term
//	-word       excluded term
//	"a b c"     phrase; terms must be adjacent
//	field:word  term restricted to one indexed field (title, section_title, content)
//
// Prefixes combine, e.g. -title:"draft notes".
//
// A bare word that normalizes to several terms, such as rate-limit, becomes
// independent optional terms. With a prefix or a field it becomes a phrase
// instead: +rate-limit requires "rate limit" and title:rate-limit matches
// "rate limit" in the title only.
type Parser struct {
	normalizer *analysis.Normalizer
}

// NewParser creates a parser that normalizes terms with normalizer.
func NewParser(normalizer *analysis.Normalizer) *Parser {
	return &Parser{normalizer: normalizer}
}

type rawClause struct {
	occur  storage.Occur
	field  string
	text   string
	quoted bool
}

// Parse never fails; text that normalizes to nothing is dropped.
func (p *Parser) Parse(text string) Query {
	var q Query
	for _, raw := range lex(text) {
		terms := p.normalizer.Terms(raw.text)
		if len(terms) == 0 {
			continue
		}

		// Bare words split into independent optional terms; prefixed ones stay a phrase.
		if !raw.quoted && raw.occur == storage.Should && raw.field == "" {
			for _, t := range terms {
				q.Clauses = append(q.Clauses, storage.Clause{Terms: []string{t}})
			}
			continue
		}

		q.Clauses = append(q.Clauses, storage.Clause{
			Terms: terms,
			Field: raw.field,
			Occur: raw.occur,
		})
	}
	return q
}

func lex(s string) []rawClause {
	var out []rawClause
	i := 0
	for i < len(s) {
		next := strings.IndexFunc(s[i:], notSpace)
		if next < 0 {
			break
		}
		i += next

		var raw rawClause
		if (s[i] == '+' || s[i] == '-') && i+1 < len(s) && !startsWithSpace(s[i+1:]) {
			if s[i] == '+' {
				raw.occur = storage.Must
			} else {
				raw.occur = storage.MustNot
			}
			i++
		}

		if field, rest, ok := fieldPrefix(s[i:]); ok {
			raw.field = field
			i = len(s) - len(rest)
		}

		if i < len(s) && s[i] == '"' {
			raw.quoted = true
			end := strings.IndexByte(s[i+1:], '"')
			if end < 0 {
				raw.text = s[i+1:]
				i = len(s)
			} else {
				raw.text = s[i+1 : i+1+end]
				i += end + 2
			}
		} else {
			end := strings.IndexFunc(s[i:], unicode.IsSpace)
			if end < 0 {
				end = len(s) - i
			}
			raw.text = s[i : i+end]
			i += end
		}
		out = append(out, raw)
	}
	return out
}

// fieldPrefix splits "field:rest" when field is an indexed field name.
func fieldPrefix(s string) (string, string, bool) {
	colon := strings.IndexByte(s, ':')
	if colon <= 0 {
		return "", s, false
	}
	field := strings.ToLower(s[:colon])
	if !storage.IsIndexedField(field) {
		return "", s, false
	}
	rest := s[colon+1:]
	if rest == "" || startsWithSpace(rest) {
		return "", s, false
	}
	return field, rest, true
}

func notSpace(r rune) bool {
	return !unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) == 0
}
