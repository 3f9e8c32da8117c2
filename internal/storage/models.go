package storage

import (
	"time"

	"docsearch/internal/analysis"
)

// Field names of the section schema.
const (
	FieldPath         = "path"
	FieldTitle        = "title"
	FieldSectionTitle = "section_title"
	FieldContent      = "content"
	FieldSectionIdx   = "section_idx"
)

// IndexedFields lists the fields that carry postings and can be searched.
var IndexedFields = []string{FieldTitle, FieldSectionTitle, FieldContent}

// IsIndexedField reports whether name is a searchable field.
func IsIndexedField(name string) bool {
	for _, f := range IndexedFields {
		if f == name {
			return true
		}
	}
	return false
}

// SectionRecord is the stored copy of one indexed section.
type SectionRecord struct {
	ID           int64  // Internal record id, assigned in insertion order
	Path         string // Owning document path
	Title        string // Document title shared by all its sections
	SectionTitle string // Heading introducing the section ("" for leading content)
	Content      string // Section text including its heading line
	SectionIdx   int    // Position within the document (starts at 0)
}

// FieldTerms maps an indexed field name to its analyzed terms.
type FieldTerms map[string][]analysis.Term

// Generation describes one committed version of the index.
type Generation struct {
	ID        string    // UUID
	Files     int       // Distinct document paths in the generation
	Sections  int       // Stored sections in the generation
	CreatedAt time.Time // Commit time (UTC)
}

// ScoredSection is a search hit.
type ScoredSection struct {
	Section SectionRecord
	Score   float64
}
