package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/mock/gomock"

	"docsearch/internal/analysis"
	"docsearch/internal/corpus"
	"docsearch/internal/storage"
	storage_mocks "docsearch/internal/storage/mocks"
)

func newTestStore(t *testing.T) *storage.IndexStore {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}
	return storage.NewIndexStore(db)
}

// writeDocs writes files under a temp root and returns them as documents in the given order.
func writeDocs(t *testing.T, files []struct{ name, content string }) []corpus.Document {
	t.Helper()
	root := t.TempDir()

	docs := make([]corpus.Document, 0, len(files))
	for _, f := range files {
		path := filepath.Join(root, f.name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		docs = append(docs, corpus.Document{Path: path})
	}
	return docs
}

func TestNewBuilder(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"default", 0, DefaultWorkers},
		{"negative", -3, DefaultWorkers},
		{"explicit", 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(newTestStore(t), analysis.New(), tt.workers)
			if b.workers != tt.want {
				t.Errorf("NewBuilder() workers = %d, want %d", b.workers, tt.want)
			}
		})
	}
}

func TestBuilder_Build(t *testing.T) {
	store := newTestStore(t)
	builder := NewBuilder(store, analysis.New(), 2)
	ctx := context.Background()

	docs := writeDocs(t, []struct{ name, content string }{
		{"a.md", "# Guide\n\nIntro text.\n\n## Setup\n\nInstall steps.\n\n## Usage\n\nRun it."},
		{"b.rst", "Notes\n=====\n\nSome notes.\n\nDetails\n-------\nMore."},
		{"empty.md", ""},
	})
	missing := corpus.Document{Path: filepath.Join(t.TempDir(), "missing.md")}
	docs = append(docs, missing)

	report, err := builder.Build(ctx, slices.Values(docs), true)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if report.FilesIndexed != 3 {
		t.Errorf("Build() FilesIndexed = %d, want 3", report.FilesIndexed)
	}
	if report.SectionsIndexed != 5 {
		t.Errorf("Build() SectionsIndexed = %d, want 5", report.SectionsIndexed)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Path != missing.Path {
		t.Errorf("Build() Skipped = %+v, want %s", report.Skipped, missing.Path)
	}
	if report.Generation == nil || report.Generation.Sections != 5 {
		t.Errorf("Build() Generation = %+v, want 5 sections", report.Generation)
	}

	wantSections := []struct {
		idx          int
		sectionTitle string
	}{
		{0, ""},
		{1, "Setup"},
		{2, "Usage"},
	}
	for _, ws := range wantSections {
		rec, err := store.GetSection(ctx, docs[0].Path, ws.idx)
		if err != nil {
			t.Fatalf("GetSection(%d) error = %v", ws.idx, err)
		}
		if rec.Title != "Guide" || rec.SectionTitle != ws.sectionTitle {
			t.Errorf("GetSection(%d) = %q/%q, want Guide/%q", ws.idx, rec.Title, rec.SectionTitle, ws.sectionTitle)
		}
	}

	rst, err := store.GetSection(ctx, docs[1].Path, 1)
	if err != nil {
		t.Fatalf("GetSection(rst) error = %v", err)
	}
	if rst.Title != "Notes" || rst.SectionTitle != "Details" {
		t.Errorf("GetSection(rst) = %q/%q, want Notes/Details", rst.Title, rst.SectionTitle)
	}
}

func TestBuilder_Build_SkipsInvalidUTF8(t *testing.T) {
	store := newTestStore(t)
	builder := NewBuilder(store, analysis.New(), 1)

	docs := writeDocs(t, []struct{ name, content string }{
		{"bad.md", "# Bad\n\xff\xfe"},
		{"good.md", "# Good\nbody"},
	})

	report, err := builder.Build(context.Background(), slices.Values(docs), true)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if report.FilesIndexed != 1 || len(report.Skipped) != 1 {
		t.Errorf("Build() = %d files, %d skipped, want 1, 1", report.FilesIndexed, len(report.Skipped))
	}
}

func TestBuilder_Build_PreservesDocumentOrder(t *testing.T) {
	store := newTestStore(t)
	builder := NewBuilder(store, analysis.New(), 3)
	ctx := context.Background()

	var files []struct{ name, content string }
	for i := range 60 {
		files = append(files, struct{ name, content string }{
			name:    fmt.Sprintf("doc%02d.md", i),
			content: "retry policy",
		})
	}
	docs := writeDocs(t, files)

	if _, err := builder.Build(ctx, slices.Values(docs), true); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	hits, err := store.Search(ctx, storage.SearchRequest{
		Fields:  []string{storage.FieldContent},
		Clauses: []storage.Clause{{Terms: []string{"retri"}}},
		Limit:   len(docs),
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != len(docs) {
		t.Fatalf("Search() returned %d hits, want %d", len(hits), len(docs))
	}
	for i, h := range hits {
		if h.Section.Path != docs[i].Path {
			t.Fatalf("hit %d = %s, want %s", i, h.Section.Path, docs[i].Path)
		}
	}
}

func TestBuilder_Build_Idempotent(t *testing.T) {
	store := newTestStore(t)
	builder := NewBuilder(store, analysis.New(), 2)
	ctx := context.Background()

	docs := writeDocs(t, []struct{ name, content string }{
		{"a.md", "# A\n\nretry once\n\n## More\n\nretry retry"},
		{"b.md", "# B\n\nretry backoff"},
	})

	search := func() []string {
		hits, err := store.Search(ctx, storage.SearchRequest{
			Fields:  []string{storage.FieldContent},
			Clauses: []storage.Clause{{Terms: []string{"retri"}}},
			Limit:   5,
		})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		var out []string
		for _, h := range hits {
			out = append(out, fmt.Sprintf("%s#%d", h.Section.Path, h.Section.SectionIdx))
		}
		return out
	}

	first, err := builder.Build(ctx, slices.Values(docs), true)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	firstOrder := search()

	second, err := builder.Build(ctx, slices.Values(docs), true)
	if err != nil {
		t.Fatalf("second Build() error = %v", err)
	}
	secondOrder := search()

	if first.FilesIndexed != second.FilesIndexed || first.SectionsIndexed != second.SectionsIndexed {
		t.Errorf("Build() counts changed: %d/%d then %d/%d",
			first.FilesIndexed, first.SectionsIndexed, second.FilesIndexed, second.SectionsIndexed)
	}
	if !slices.Equal(firstOrder, secondOrder) {
		t.Errorf("Search() order changed: %v then %v", firstOrder, secondOrder)
	}
}

func TestBuilder_Build_EmptyCorpus(t *testing.T) {
	store := newTestStore(t)
	builder := NewBuilder(store, analysis.New(), 2)

	report, err := builder.Build(context.Background(), slices.Values([]corpus.Document(nil)), true)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if report.FilesIndexed != 0 || report.SectionsIndexed != 0 {
		t.Errorf("Build() = %d/%d, want 0/0", report.FilesIndexed, report.SectionsIndexed)
	}

	exists, err := store.Exists(context.Background())
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false after empty build")
	}
}

func TestBuilder_Build_WriteConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := storage_mocks.NewMockIndexWriter(ctrl)
	writer.EXPECT().BeginWrite(gomock.Any(), true).Return(nil, storage.ErrWriteConflict)

	builder := NewBuilder(writer, analysis.New(), 1)
	_, err := builder.Build(context.Background(), slices.Values([]corpus.Document(nil)), true)
	if !errors.Is(err, storage.ErrWriteConflict) {
		t.Errorf("Build() error = %v, want ErrWriteConflict", err)
	}
}

func TestBuilder_Build_CommitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := writeDocs(t, []struct{ name, content string }{
		{"a.md", "# A\n\nbody\n\n## B\n\nmore"},
	})

	batch := storage_mocks.NewMockWriteBatch(ctrl)
	writer := storage_mocks.NewMockIndexWriter(ctrl)
	writer.EXPECT().BeginWrite(gomock.Any(), false).Return(batch, nil)

	gomock.InOrder(
		batch.EXPECT().AddSection(gomock.Any(), gomock.Any()).DoAndReturn(
			func(rec storage.SectionRecord, terms storage.FieldTerms) error {
				if rec.SectionIdx != 0 || rec.Title != "A" {
					t.Errorf("AddSection() first record = %+v", rec)
				}
				if len(terms[storage.FieldContent]) == 0 {
					t.Error("AddSection() content terms empty")
				}
				return nil
			}),
		batch.EXPECT().AddSection(gomock.Any(), gomock.Any()).Return(nil),
		batch.EXPECT().Commit(gomock.Any()).Return(nil, storage.ErrCommitFailed),
	)
	batch.EXPECT().Rollback().AnyTimes()

	builder := NewBuilder(writer, analysis.New(), 1)
	report, err := builder.Build(context.Background(), slices.Values(docs), false)
	if !errors.Is(err, storage.ErrCommitFailed) {
		t.Errorf("Build() error = %v, want ErrCommitFailed", err)
	}
	if report != nil {
		t.Errorf("Build() report = %+v, want nil", report)
	}
}

func TestBuilder_Build_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := writeDocs(t, []struct{ name, content string }{
		{"a.md", "# A\nbody"},
	})

	batch := storage_mocks.NewMockWriteBatch(ctrl)
	writer := storage_mocks.NewMockIndexWriter(ctrl)
	writer.EXPECT().BeginWrite(gomock.Any(), true).Return(batch, nil)
	batch.EXPECT().Rollback().Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	builder := NewBuilder(writer, analysis.New(), 1)
	if _, err := builder.Build(ctx, slices.Values(docs), true); !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}
