package indexer

import (
	"context"
	"fmt"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"

	"docsearch/internal/analysis"
	"docsearch/internal/contextutil"
	"docsearch/internal/corpus"
	"docsearch/internal/storage"
)

// DefaultWorkers is the number of documents read and segmented concurrently.
const DefaultWorkers = 4

// windowPerWorker bounds how many processed documents are buffered per worker
// before they are handed to the write batch.
const windowPerWorker = 8

// Builder drives segmentation and normalization over a corpus and writes the
// result to the index as one generation.
type Builder struct {
	writer     storage.IndexWriter
	segmenter  *Segmenter
	normalizer *analysis.Normalizer
	workers    int
}

// NewBuilder creates a new builder. workers <= 0 uses DefaultWorkers.
func NewBuilder(writer storage.IndexWriter, normalizer *analysis.Normalizer, workers int) *Builder {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Builder{
		writer:     writer,
		segmenter:  NewSegmenter(),
		normalizer: normalizer,
		workers:    workers,
	}
}

// processed is the outcome of reading and segmenting one document.
type processed struct {
	doc     corpus.Document
	records []storage.SectionRecord
	terms   []storage.FieldTerms
	readErr error
}

// Build indexes every document of docs and commits once. Unreadable documents
// are logged and reported as skipped. Documents are added in the order docs
// yields them, so section record ids follow document order.
// On error nothing becomes visible and the previous generation stays active.
func (b *Builder) Build(ctx context.Context, docs iter.Seq[corpus.Document], clearExisting bool) (*Report, error) {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()

	batch, err := b.writer.BeginWrite(ctx, clearExisting)
	if err != nil {
		return nil, fmt.Errorf("failed to open index write: %w", err)
	}
	defer batch.Rollback()

	logger.InfoContext(ctx, "starting index build", "clear_existing", clearExisting, "workers", b.workers)

	report := &Report{}
	windowSize := b.workers * windowPerWorker
	window := make([]corpus.Document, 0, windowSize)

	for doc := range docs {
		window = append(window, doc)
		if len(window) < windowSize {
			continue
		}
		if err := b.addWindow(ctx, batch, window, report); err != nil {
			return nil, err
		}
		window = window[:0]
	}
	if err := b.addWindow(ctx, batch, window, report); err != nil {
		return nil, err
	}

	gen, err := batch.Commit(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "index build failed", "error", err)
		return nil, err
	}

	report.Generation = gen
	report.Duration = time.Since(start)
	logger.InfoContext(ctx, "index build completed",
		"files", report.FilesIndexed,
		"sections", report.SectionsIndexed,
		"skipped", len(report.Skipped),
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

// addWindow processes a window of documents concurrently and adds the results
// to the batch in window order.
func (b *Builder) addWindow(ctx context.Context, batch storage.WriteBatch, window []corpus.Document, report *Report) error {
	if len(window) == 0 {
		return nil
	}
	logger := contextutil.LoggerFromContext(ctx)

	results := make([]processed, len(window))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, doc := range window {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.process(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("index build cancelled: %w", err)
	}

	for _, res := range results {
		if res.readErr != nil {
			logger.WarnContext(ctx, "failed to read document", "path", res.doc.Path, "error", res.readErr)
			report.Skipped = append(report.Skipped, SkippedDocument{
				Path:   res.doc.Path,
				Reason: res.readErr.Error(),
			})
			continue
		}

		for i, rec := range res.records {
			if err := batch.AddSection(rec, res.terms[i]); err != nil {
				return fmt.Errorf("failed to add section %s#%d: %w", rec.Path, rec.SectionIdx, err)
			}
		}
		report.FilesIndexed++
		report.SectionsIndexed += len(res.records)
		logger.DebugContext(ctx, "indexed document", "path", res.doc.Path, "sections", len(res.records))
	}
	return nil
}

// process reads, segments and normalizes one document.
func (b *Builder) process(doc corpus.Document) processed {
	text, err := doc.Read()
	if err != nil {
		return processed{doc: doc, readErr: err}
	}

	title, sections := b.segmenter.Segment(text, doc.IsRST())
	titleTerms := b.normalizer.Normalize(title)

	out := processed{
		doc:     doc,
		records: make([]storage.SectionRecord, len(sections)),
		terms:   make([]storage.FieldTerms, len(sections)),
	}
	for i, sec := range sections {
		out.records[i] = storage.SectionRecord{
			Path:         doc.Path,
			Title:        title,
			SectionTitle: sec.Heading,
			Content:      sec.Content,
			SectionIdx:   sec.Index,
		}
		out.terms[i] = storage.FieldTerms{
			storage.FieldTitle:        titleTerms,
			storage.FieldSectionTitle: b.normalizer.Normalize(sec.Heading),
			storage.FieldContent:      b.normalizer.Normalize(sec.Content),
		}
	}
	return out
}
