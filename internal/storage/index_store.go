package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_index.go -package=mocks docsearch/internal/storage SectionIndex,IndexWriter,WriteBatch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"docsearch/internal/analysis"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrWriteConflict is returned when a write scope is already open.
	ErrWriteConflict = errors.New("index write already in progress")
	// ErrCommitFailed is returned when a generation could not be persisted.
	ErrCommitFailed = errors.New("index commit failed")
	// ErrBatchClosed is returned when a committed or rolled back batch is reused.
	ErrBatchClosed = errors.New("write batch already closed")
)

// SectionIndex defines the read side of the index.
type SectionIndex interface {
	// Exists reports whether a committed generation is present.
	Exists(ctx context.Context) (bool, error)
	// Search returns up to req.Limit sections ordered by descending score,
	// ties broken by ascending record id.
	Search(ctx context.Context, req SearchRequest) ([]ScoredSection, error)
	// Stats describes the active generation. Returns ErrNotFound if none exists.
	Stats(ctx context.Context) (*Stats, error)
}

// IndexWriter opens write scopes against the index.
type IndexWriter interface {
	// BeginWrite opens the single write scope. If clearExisting is set the
	// previous generation is replaced wholesale at commit time.
	// Returns ErrWriteConflict if another scope is open.
	BeginWrite(ctx context.Context, clearExisting bool) (WriteBatch, error)
}

// WriteBatch buffers sections until they are committed as one generation.
type WriteBatch interface {
	// AddSection buffers one section's stored values and analyzed fields.
	AddSection(section SectionRecord, terms FieldTerms) error
	// Commit persists every buffered section atomically and releases the scope.
	Commit(ctx context.Context) (*Generation, error)
	// Rollback discards the buffer and releases the scope. It is a no-op after Commit.
	Rollback()
}

// IndexStore is the SQLite-backed inverted index.
// It implements SectionIndex and IndexWriter.
type IndexStore struct {
	db      *sql.DB
	writing atomic.Bool
	logger  *slog.Logger
}

// NewIndexStore creates a new IndexStore over a migrated database.
func NewIndexStore(db *sql.DB) *IndexStore {
	return &IndexStore{
		db:     db,
		logger: slog.Default(),
	}
}

// Exists reports whether a committed generation is present.
func (s *IndexStore) Exists(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM generations WHERE active = 1").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query generations: %w", err)
	}
	return count > 0, nil
}

// ActiveGeneration returns the committed generation. Returns ErrNotFound if none exists.
func (s *IndexStore) ActiveGeneration(ctx context.Context) (*Generation, error) {
	return activeGeneration(ctx, s.db)
}

// GetSection gets a stored section by document path and section index.
// Returns ErrNotFound if not found.
func (s *IndexStore) GetSection(ctx context.Context, path string, sectionIdx int) (*SectionRecord, error) {
	var rec SectionRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT id, path, title, section_title, content, section_idx FROM sections WHERE path = ? AND section_idx = ?",
		path, sectionIdx,
	).Scan(&rec.ID, &rec.Path, &rec.Title, &rec.SectionTitle, &rec.Content, &rec.SectionIdx)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query section: %w", err)
	}

	return &rec, nil
}

// BeginWrite opens the single write scope.
func (s *IndexStore) BeginWrite(ctx context.Context, clearExisting bool) (WriteBatch, error) {
	if !s.writing.CompareAndSwap(false, true) {
		return nil, ErrWriteConflict
	}
	s.logger.DebugContext(ctx, "index write scope opened", "clear_existing", clearExisting)
	return &WriteHandle{
		store:         s,
		clearExisting: clearExisting,
	}, nil
}

// WriteHandle is the open write scope of an IndexStore.
type WriteHandle struct {
	store         *IndexStore
	clearExisting bool
	pending       []pendingSection
	closed        bool
}

type pendingSection struct {
	record SectionRecord
	terms  FieldTerms
}

// AddSection buffers one section. Nothing is visible to readers until Commit.
func (h *WriteHandle) AddSection(section SectionRecord, terms FieldTerms) error {
	if h.closed {
		return ErrBatchClosed
	}
	for field := range terms {
		if !IsIndexedField(field) {
			return fmt.Errorf("field %q is not indexed", field)
		}
	}
	h.pending = append(h.pending, pendingSection{record: section, terms: terms})
	return nil
}

// Rollback discards buffered sections and releases the write scope.
func (h *WriteHandle) Rollback() {
	if h.closed {
		return
	}
	h.closed = true
	h.pending = nil
	h.store.writing.Store(false)
}

// Commit writes all buffered sections in a single transaction and makes them
// the active generation. On failure nothing is written and the previous
// generation stays active. The write scope is released either way.
func (h *WriteHandle) Commit(ctx context.Context) (*Generation, error) {
	if h.closed {
		return nil, ErrBatchClosed
	}
	defer h.Rollback()

	gen, err := h.commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	h.store.logger.InfoContext(ctx, "index generation committed",
		"generation", gen.ID,
		"files", gen.Files,
		"sections", gen.Sections,
		"clear_existing", h.clearExisting,
	)
	return gen, nil
}

func (h *WriteHandle) commit(ctx context.Context) (*Generation, error) {
	tx, err := h.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if h.clearExisting {
		if err := clearSections(ctx, tx); err != nil {
			return nil, err
		}
	} else if err := deletePaths(ctx, tx, h.pending); err != nil {
		return nil, err
	}

	sectionStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (path, title, section_title, content, section_idx, title_len, section_title_len, content_len)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare section insert: %w", err)
	}
	defer func() {
		_ = sectionStmt.Close()
	}()

	postingStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO postings (field, term, section_id, frequency, positions) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare posting insert: %w", err)
	}
	defer func() {
		_ = postingStmt.Close()
	}()

	for _, p := range h.pending {
		rec := p.record
		res, err := sectionStmt.ExecContext(ctx,
			rec.Path, rec.Title, rec.SectionTitle, rec.Content, rec.SectionIdx,
			len(p.terms[FieldTitle]), len(p.terms[FieldSectionTitle]), len(p.terms[FieldContent]),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert section %s#%d: %w", rec.Path, rec.SectionIdx, err)
		}
		sectionID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read section id: %w", err)
		}

		for field, terms := range p.terms {
			for term, positions := range invert(terms) {
				if _, err := postingStmt.ExecContext(ctx, field, term, sectionID, len(positions), encodePositions(positions)); err != nil {
					return nil, fmt.Errorf("failed to insert posting %s:%s: %w", field, term, err)
				}
			}
		}
	}

	gen := &Generation{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(DISTINCT path), COUNT(*) FROM sections").Scan(&gen.Files, &gen.Sections); err != nil {
		return nil, fmt.Errorf("failed to count sections: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE generations SET active = 0 WHERE active = 1"); err != nil {
		return nil, fmt.Errorf("failed to retire generation: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO generations (id, files, sections, created_at, active) VALUES (?, ?, ?, ?, 1)",
		gen.ID, gen.Files, gen.Sections, gen.CreatedAt.Unix(),
	); err != nil {
		return nil, fmt.Errorf("failed to record generation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return gen, nil
}

// clearSections removes every stored section and posting.
func clearSections(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM postings"); err != nil {
		return fmt.Errorf("failed to clear postings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sections"); err != nil {
		return fmt.Errorf("failed to clear sections: %w", err)
	}
	return nil
}

// deletePaths removes stored sections of documents that are about to be re-added,
// keeping path + section_idx unique within the generation.
func deletePaths(ctx context.Context, tx *sql.Tx, pending []pendingSection) error {
	seen := make(map[string]bool)
	for _, p := range pending {
		path := p.record.Path
		if seen[path] {
			continue
		}
		seen[path] = true
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM postings WHERE section_id IN (SELECT id FROM sections WHERE path = ?)", path,
		); err != nil {
			return fmt.Errorf("failed to delete postings for %s: %w", path, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM sections WHERE path = ?", path); err != nil {
			return fmt.Errorf("failed to delete sections for %s: %w", path, err)
		}
	}
	return nil
}

func activeGeneration(ctx context.Context, q queryer) (*Generation, error) {
	var gen Generation
	var createdAt int64
	err := q.QueryRowContext(ctx,
		"SELECT id, files, sections, created_at FROM generations WHERE active = 1",
	).Scan(&gen.ID, &gen.Files, &gen.Sections, &createdAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query generation: %w", err)
	}
	gen.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &gen, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// invert groups term positions by term text.
func invert(terms []analysis.Term) map[string][]int {
	out := make(map[string][]int)
	for _, t := range terms {
		out[t.Text] = append(out[t.Text], t.Position)
	}
	return out
}

func encodePositions(positions []int) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

func decodePositions(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, part := range parts {
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid position %q: %w", part, err)
		}
		out[i] = p
	}
	return out, nil
}
