package search

import (
	"context"
	"fmt"

	"docsearch/internal/analysis"
	"docsearch/internal/contextutil"
	"docsearch/internal/storage"
)

const (
	// DefaultLimit is the result count used when a caller does not specify one.
	DefaultLimit = 5
	// DefaultMaxLimit caps the result count of a single query.
	DefaultMaxLimit = 20
	// DefaultSnippetLength is the number of characters of content in a document-mode snippet.
	DefaultSnippetLength = 200
)

// Mode selects the fields searched and the shape of each hit.
type Mode string

const (
	// ModeDocument searches title and content and returns snippets.
	ModeDocument Mode = "document"
	// ModeSection searches section_title and content and returns full sections.
	ModeSection Mode = "section"
)

// ParseMode parses a mode name. Empty means ModeDocument.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeDocument:
		return ModeDocument, nil
	case ModeSection:
		return ModeSection, nil
	default:
		return "", fmt.Errorf("unknown search mode %q", s)
	}
}

// Fields returns the fields searched by the mode.
func (m Mode) Fields() []string {
	if m == ModeSection {
		return []string{storage.FieldSectionTitle, storage.FieldContent}
	}
	return []string{storage.FieldTitle, storage.FieldContent}
}

// Status tells whether a query ran against a built index.
type Status string

const (
	StatusOK       Status = "ok"
	StatusNotBuilt Status = "not_built"
)

// Request is a single query.
type Request struct {
	Text  string
	Mode  Mode
	Limit int
}

// Hit is one matched section.
// Document-mode hits carry Title and Snippet; section-mode hits carry SectionTitle and Content.
type Hit struct {
	Path         string  `json:"path"`
	SectionIdx   int     `json:"section_idx"`
	Title        string  `json:"title,omitempty"`
	SectionTitle string  `json:"section_title,omitempty"`
	Snippet      string  `json:"snippet,omitempty"`
	Content      string  `json:"content,omitempty"`
	Score        float64 `json:"score"`
}

// Response is the result of a query.
type Response struct {
	Status Status `json:"status"`
	Mode   Mode   `json:"mode"`
	Hits   []Hit  `json:"hits"`
}

// Engine answers queries against the index.
type Engine struct {
	index         storage.SectionIndex
	parser        *Parser
	maxLimit      int
	snippetLength int
}

// NewEngine creates a query engine. maxLimit and snippetLength <= 0 use the defaults.
func NewEngine(index storage.SectionIndex, normalizer *analysis.Normalizer, maxLimit, snippetLength int) *Engine {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	if snippetLength <= 0 {
		snippetLength = DefaultSnippetLength
	}
	return &Engine{
		index:         index,
		parser:        NewParser(normalizer),
		maxLimit:      maxLimit,
		snippetLength: snippetLength,
	}
}

// MaxLimit returns the largest result count a query may return.
func (e *Engine) MaxLimit() int {
	return e.maxLimit
}

// Query runs req. A missing index yields StatusNotBuilt and no hits rather than
// an error. Empty queries and limits <= 0 yield no hits. Limits above the
// maximum are capped.
func (e *Engine) Query(ctx context.Context, req Request) (*Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return nil, err
	}
	resp := &Response{Status: StatusOK, Mode: mode, Hits: []Hit{}}

	exists, err := e.index.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check index: %w", err)
	}
	if !exists {
		logger.InfoContext(ctx, "query against missing index", "query", req.Text)
		resp.Status = StatusNotBuilt
		return resp, nil
	}

	limit := min(req.Limit, e.maxLimit)
	if limit <= 0 {
		return resp, nil
	}

	q := e.parser.Parse(req.Text)
	if q.Empty() {
		return resp, nil
	}

	scored, err := e.index.Search(ctx, storage.SearchRequest{
		Fields:  mode.Fields(),
		Clauses: q.Clauses,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	for _, s := range scored {
		resp.Hits = append(resp.Hits, e.hit(mode, s))
	}

	logger.DebugContext(ctx, "query completed",
		"query", req.Text,
		"mode", mode,
		"limit", limit,
		"hits", len(resp.Hits),
	)
	return resp, nil
}

func (e *Engine) hit(mode Mode, s storage.ScoredSection) Hit {
	h := Hit{
		Path:       s.Section.Path,
		SectionIdx: s.Section.SectionIdx,
		Score:      s.Score,
	}
	if mode == ModeSection {
		h.SectionTitle = s.Section.SectionTitle
		h.Content = s.Section.Content
		return h
	}
	h.Title = s.Section.Title
	h.Snippet = Snippet(s.Section.Content, e.snippetLength)
	return h
}

// Snippet returns the first n characters of content.
func Snippet(content string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range content {
		if count == n {
			return content[:i]
		}
		count++
	}
	return content
}
