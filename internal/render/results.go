package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"docsearch/internal/search"
)

// FailedRead replaces the document text when full output cannot read a file.
const FailedRead = "[Failed to read full content]"

const separatorWidth = 40

// Options controls result rendering.
type Options struct {
	// Full replaces document-mode snippets with the whole file.
	Full bool
}

// documentJSON is a document-mode result.
type documentJSON struct {
	Path       string `json:"path"`
	SectionIdx int    `json:"section_idx"`
	Snippet    string `json:"snippet"`
}

// fullJSON is a document-mode result with the whole file.
type fullJSON struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// sectionJSON is a section-mode result.
type sectionJSON struct {
	Path         string `json:"path"`
	SectionIdx   int    `json:"section_idx"`
	SectionTitle string `json:"section_title"`
	Content      string `json:"content"`
}

// Text writes results as plain text, one block per hit.
func Text(w io.Writer, resp *search.Response, opts Options) error {
	sep := strings.Repeat("-", separatorWidth)
	for _, h := range resp.Hits {
		var err error
		switch {
		case resp.Mode == search.ModeSection:
			_, err = fmt.Fprintf(w, "File: %s, Section: %s\nContent:\n%s\n%s\n", h.Path, h.SectionTitle, h.Content, sep)
		case opts.Full:
			_, err = fmt.Fprintf(w, "File: %s\nFull content:\n%s\n%s\n", h.Path, readFull(h.Path), sep)
		default:
			_, err = fmt.Fprintf(w, "File: %s, Section: %d\nSnippet: %s\n%s\n", h.Path, h.SectionIdx, h.Snippet, sep)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// JSON writes results as an indented JSON array.
func JSON(w io.Writer, resp *search.Response, opts Options) error {
	out := make([]any, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		switch {
		case resp.Mode == search.ModeSection:
			out = append(out, sectionJSON{Path: h.Path, SectionIdx: h.SectionIdx, SectionTitle: h.SectionTitle, Content: h.Content})
		case opts.Full:
			out = append(out, fullJSON{Path: h.Path, Content: readFull(h.Path)})
		default:
			out = append(out, documentJSON{Path: h.Path, SectionIdx: h.SectionIdx, Snippet: h.Snippet})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readFull(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return FailedRead
	}
	return string(data)
}
