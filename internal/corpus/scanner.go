package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

var (
	// ErrRootNotFound is returned when the documentation root does not exist.
	ErrRootNotFound = errors.New("documentation root not found")
	// ErrUnreadable is returned when a document cannot be read or is not valid UTF-8.
	ErrUnreadable = errors.New("document unreadable")
)

// DefaultExtensions are the document extensions indexed when none are configured.
var DefaultExtensions = []string{".md", ".mdx", ".rst"}

// Document is a candidate file found under the documentation root.
type Document struct {
	Path string // Root-joined path, e.g. "references/guide/setup.md"
}

// Read returns the document text. Errors wrap ErrUnreadable.
func (d Document) Read() (string, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrUnreadable, d.Path)
	}
	return string(data), nil
}

// IsRST reports whether the document uses reStructuredText headings.
func (d Document) IsRST() bool {
	return strings.EqualFold(filepath.Ext(d.Path), ".rst")
}

// Scanner enumerates documents under a root directory.
type Scanner struct {
	root       string
	extensions []string
	ignoreDirs map[string]bool
	logger     *slog.Logger
}

// NewScanner creates a scanner. Empty extensions fall back to DefaultExtensions.
// Hidden directories are always skipped; ignoreDirs names additional directories to skip.
func NewScanner(root string, extensions, ignoreDirs []string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make([]string, len(extensions))
	for i, e := range extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[i] = e
	}

	ignore := make(map[string]bool, len(ignoreDirs))
	for _, d := range ignoreDirs {
		ignore[d] = true
	}

	return &Scanner{
		root:       root,
		extensions: exts,
		ignoreDirs: ignore,
		logger:     slog.Default(),
	}
}

// Root returns the documentation root.
func (s *Scanner) Root() string {
	return s.root
}

// Check verifies the root exists and is a directory.
func (s *Scanner) Check() error {
	info, err := os.Stat(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, s.root)
		}
		return fmt.Errorf("failed to stat %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, s.root)
	}
	return nil
}

// Matches reports whether path has an indexed extension.
func (s *Scanner) Matches(path string) bool {
	return slices.Contains(s.extensions, strings.ToLower(filepath.Ext(path)))
}

// Skips reports whether a directory name is excluded from scanning.
func (s *Scanner) Skips(name string) bool {
	return s.ignoreDirs[name] || (len(name) > 1 && strings.HasPrefix(name, "."))
}

// Documents walks the root lazily in lexical order. Walking stops when the
// consumer stops or ctx is cancelled. Unreadable directories are logged and skipped.
// A missing root yields nothing; call Check to distinguish it.
func (s *Scanner) Documents(ctx context.Context) iter.Seq[Document] {
	return func(yield func(Document) bool) {
		if s.Check() != nil {
			return
		}
		_ = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				s.logger.WarnContext(ctx, "failed to access path", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != s.root && s.Skips(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() || !s.Matches(path) {
				return nil
			}
			if !yield(Document{Path: path}) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// Count returns the number of candidate documents under the root.
func (s *Scanner) Count(ctx context.Context) (int, error) {
	if err := s.Check(); err != nil {
		return 0, err
	}
	n := 0
	for range s.Documents(ctx) {
		n++
	}
	if err := ctx.Err(); err != nil {
		return n, err
	}
	return n, nil
}
