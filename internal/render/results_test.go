package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docsearch/internal/search"
)

func TestText(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "full.md")
	if err := os.WriteFile(full, []byte("# Full\nwhole file"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	sep := strings.Repeat("-", 40)

	tests := []struct {
		name string
		resp *search.Response
		opts Options
		want string
	}{
		{
			name: "document",
			resp: &search.Response{Mode: search.ModeDocument, Hits: []search.Hit{{Path: "a.md", SectionIdx: 2, Snippet: "## Usage"}}},
			want: "File: a.md, Section: 2\nSnippet: ## Usage\n" + sep + "\n",
		},
		{
			name: "section",
			resp: &search.Response{Mode: search.ModeSection, Hits: []search.Hit{{Path: "a.md", SectionTitle: "Setup", Content: "## Setup\nsteps"}}},
			want: "File: a.md, Section: Setup\nContent:\n## Setup\nsteps\n" + sep + "\n",
		},
		{
			name: "full",
			resp: &search.Response{Mode: search.ModeDocument, Hits: []search.Hit{{Path: full}}},
			opts: Options{Full: true},
			want: "File: " + full + "\nFull content:\n# Full\nwhole file\n" + sep + "\n",
		},
		{
			name: "full unreadable",
			resp: &search.Response{Mode: search.ModeDocument, Hits: []search.Hit{{Path: filepath.Join(dir, "gone.md")}}},
			opts: Options{Full: true},
			want: "File: " + filepath.Join(dir, "gone.md") + "\nFull content:\n" + FailedRead + "\n" + sep + "\n",
		},
		{
			name: "no hits",
			resp: &search.Response{Mode: search.ModeDocument},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Text(&buf, tt.resp, tt.opts); err != nil {
				t.Fatalf("Text() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Text() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name string
		resp *search.Response
		opts Options
		want []map[string]any
	}{
		{
			name: "document",
			resp: &search.Response{Mode: search.ModeDocument, Hits: []search.Hit{{Path: "a.md", SectionIdx: 1, Snippet: "<b>x</b> ü"}}},
			want: []map[string]any{{"path": "a.md", "section_idx": float64(1), "snippet": "<b>x</b> ü"}},
		},
		{
			name: "section",
			resp: &search.Response{Mode: search.ModeSection, Hits: []search.Hit{{Path: "a.md", SectionIdx: 0, Content: "body"}}},
			want: []map[string]any{{"path": "a.md", "section_idx": float64(0), "section_title": "", "content": "body"}},
		},
		{
			name: "full unreadable",
			resp: &search.Response{Mode: search.ModeDocument, Hits: []search.Hit{{Path: "/nonexistent/x.md"}}},
			opts: Options{Full: true},
			want: []map[string]any{{"path": "/nonexistent/x.md", "content": FailedRead}},
		},
		{
			name: "empty",
			resp: &search.Response{Mode: search.ModeDocument},
			want: []map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := JSON(&buf, tt.resp, tt.opts); err != nil {
				t.Fatalf("JSON() error = %v", err)
			}

			var got []map[string]any
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("JSON() produced invalid JSON: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("JSON() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if len(got[i]) != len(tt.want[i]) {
					t.Errorf("JSON()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
				for k, v := range tt.want[i] {
					if got[i][k] != v {
						t.Errorf("JSON()[%d][%s] = %v, want %v", i, k, got[i][k], v)
					}
				}
			}
		})
	}
}

func TestJSON_NoEscaping(t *testing.T) {
	var buf bytes.Buffer
	resp := &search.Response{Mode: search.ModeDocument, Hits: []search.Hit{{Path: "a.md", Snippet: "<tag> café"}}}
	if err := JSON(&buf, resp, Options{}); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<tag> café") {
		t.Errorf("JSON() = %s, want unescaped text", buf.String())
	}
	if !strings.Contains(buf.String(), "\n  {") {
		t.Errorf("JSON() = %s, want two-space indentation", buf.String())
	}
}
