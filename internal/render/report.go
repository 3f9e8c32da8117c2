package render

import (
	"fmt"
	"strings"

	"docsearch/internal/indexer"
	"docsearch/internal/search"
	"docsearch/internal/service"
)

const reportWidth = 60

// SearchReport formats a search response as a numbered report.
func SearchReport(query string, resp *search.Response) string {
	if resp.Status == search.StatusNotBuilt {
		return "Error: Documentation index not found. " +
			"Please run 'build_documentation_index' tool first to create the index."
	}
	if len(resp.Hits) == 0 {
		return fmt.Sprintf("No results found for query: '%s'", query)
	}

	sep := strings.Repeat("-", reportWidth)
	lines := []string{fmt.Sprintf("Search Results for: '%s'", query), strings.Repeat("=", reportWidth), ""}
	for i, h := range resp.Hits {
		lines = append(lines, fmt.Sprintf("Result %d:", i+1), "File: "+h.Path)
		if resp.Mode == search.ModeSection {
			if h.SectionTitle != "" {
				lines = append(lines, "Section: "+h.SectionTitle)
			} else {
				lines = append(lines, fmt.Sprintf("Section Index: %d", h.SectionIdx))
			}
			lines = append(lines, "", h.Content)
		} else {
			lines = append(lines, fmt.Sprintf("Section Index: %d", h.SectionIdx), "", "Snippet: "+h.Snippet)
		}
		lines = append(lines, "", sep, "")
	}
	return strings.Join(lines, "\n")
}

// BuildSummary is the one-line outcome of a build.
func BuildSummary(r *indexer.Report) string {
	return fmt.Sprintf("Index build complete. Indexed %d files with %d sections.", r.FilesIndexed, r.SectionsIndexed)
}

// BuildReport formats a build outcome with its warnings and skipped documents.
func BuildReport(verb string, r *indexer.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Successfully %s documentation index.\n\n", verb)
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", w)
	}
	for _, s := range r.Skipped {
		fmt.Fprintf(&b, "Warning: Failed to read %s: %s\n", s.Path, s.Reason)
	}
	b.WriteString(BuildSummary(r))
	return b.String()
}

// IndexExistsNotice explains how to overwrite an existing index.
func IndexExistsNotice(indexPath string) string {
	return fmt.Sprintf("Warning: An index already exists at: %s\n\n"+
		"To overwrite the existing index, please call this tool again with "+
		"'force' parameter set to true:\n"+
		"{\"force\": true}\n\n"+
		"This safety check prevents accidental loss of your existing index.", indexPath)
}

// IndexInfo formats the state of the documentation root and the index.
func IndexInfo(info *service.IndexInfo) string {
	yesNo := "No"
	if info.Exists {
		yesNo = "Yes"
	}
	lines := []string{
		"Documentation Index Information:",
		strings.Repeat("=", reportWidth),
		"Documentation Root: " + info.DocsRoot,
		"Index Path: " + info.IndexPath,
		"Index Exists: " + yesNo,
		"",
	}

	if !info.RootExists {
		lines = append(lines, "Warning: Documentation root directory does not exist: "+info.DocsRoot)
	} else {
		lines = append(lines, fmt.Sprintf("Documentation Files Found: %d", info.Documents))
	}

	if info.Stats != nil {
		s := info.Stats
		lines = append(lines,
			fmt.Sprintf("Indexed Files: %d", s.Generation.Files),
			fmt.Sprintf("Indexed Sections: %d", s.Generation.Sections),
			"Generation: "+s.Generation.ID,
			"Built At: "+s.Generation.CreatedAt.Format("2006-01-02 15:04:05 MST"),
		)
	}

	if !info.Exists {
		lines = append(lines, "", "Warning: Index not built yet. Run 'build_documentation_index' to create it.")
	}
	return strings.Join(lines, "\n")
}
