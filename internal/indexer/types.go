package indexer

import (
	"time"

	"docsearch/internal/storage"
)

// Section is one heading-delimited span of a document.
type Section struct {
	Index   int    // Position within the document (starts at 0)
	Heading string // Text of the heading introducing the section, "" before any sub-heading
	Content string // Section text including its heading line, trimmed
}

// SkippedDocument records a document left out of a build.
type SkippedDocument struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report is the outcome of one build.
type Report struct {
	FilesIndexed    int                 `json:"files_indexed"`
	SectionsIndexed int                 `json:"sections_indexed"`
	Skipped         []SkippedDocument   `json:"skipped,omitempty"`
	Warnings        []string            `json:"warnings,omitempty"`
	Generation      *storage.Generation `json:"generation,omitempty"`
	Duration        time.Duration       `json:"duration"`
}
