package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/mock/gomock"

	"docsearch/internal/indexer"
	"docsearch/internal/search"
	"docsearch/internal/service"
	"docsearch/internal/service/mocks"
)

const testIndexPath = "/tmp/docsearch/index.db"

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("tool returned no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestServer_Tools(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := New(mocks.NewMockDocsService(ctrl), testIndexPath, 20)

	want := []string{
		"search_documentation",
		"build_documentation_index",
		"update_documentation_index",
		"get_index_info",
	}
	tools := s.tools()
	if len(tools) != len(want) {
		t.Fatalf("tools() returned %d tools, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i].Tool.Name != name {
			t.Errorf("tools()[%d] = %q, want %q", i, tools[i].Tool.Name, name)
		}
	}
	if got := tools[0].Tool.InputSchema.Required; len(got) != 1 || got[0] != "query" {
		t.Errorf("search_documentation required = %v, want [query]", got)
	}

	if s.MCPServer() == nil {
		t.Error("MCPServer() returned nil")
	}
}

func TestServer_HandleSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docResp := &search.Response{
		Status: search.StatusOK,
		Mode:   search.ModeDocument,
		Hits:   []search.Hit{{Path: "docs/tasks.md", SectionIdx: 2, Title: "Tasks", Snippet: "Retries are configured"}},
	}

	tests := []struct {
		name      string
		args      map[string]any
		mockSetup func(*mocks.MockDocsService)
		wantError bool
		wantText  string
	}{
		{
			name: "document mode with default limit",
			args: map[string]any{"query": "task retries"},
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().
					Search(gomock.Any(), service.SearchRequest{Query: "task retries", Mode: "document", Limit: 5}).
					Return(docResp, nil)
			},
			wantText: "Snippet: Retries are configured",
		},
		{
			name: "section mode",
			args: map[string]any{"query": "setup", "section_mode": true, "limit": float64(3)},
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().
					Search(gomock.Any(), service.SearchRequest{Query: "setup", Mode: "section", Limit: 3}).
					Return(&search.Response{
						Status: search.StatusOK,
						Mode:   search.ModeSection,
						Hits:   []search.Hit{{Path: "a.md", SectionIdx: 1, SectionTitle: "Setup", Content: "## Setup\nInstall."}},
					}, nil)
			},
			wantText: "Section: Setup",
		},
		{
			name: "limit clamped to maximum",
			args: map[string]any{"query": "retry", "limit": float64(100)},
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().
					Search(gomock.Any(), service.SearchRequest{Query: "retry", Mode: "document", Limit: 20}).
					Return(docResp, nil)
			},
			wantText: "Result 1:",
		},
		{
			name: "limit clamped to one",
			args: map[string]any{"query": "retry", "limit": float64(0)},
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().
					Search(gomock.Any(), service.SearchRequest{Query: "retry", Mode: "document", Limit: 1}).
					Return(docResp, nil)
			},
			wantText: "Result 1:",
		},
		{
			name: "index not built",
			args: map[string]any{"query": "retry"},
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().
					Search(gomock.Any(), gomock.Any()).
					Return(&search.Response{Status: search.StatusNotBuilt, Mode: search.ModeDocument, Hits: []search.Hit{}}, nil)
			},
			wantText: "Documentation index not found",
		},
		{
			name: "no results",
			args: map[string]any{"query": "zebra"},
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().
					Search(gomock.Any(), gomock.Any()).
					Return(&search.Response{Status: search.StatusOK, Mode: search.ModeDocument, Hits: []search.Hit{}}, nil)
			},
			wantText: "No results found for query: 'zebra'",
		},
		{
			name:      "missing query",
			args:      map[string]any{},
			mockSetup: func(m *mocks.MockDocsService) {},
			wantError: true,
			wantText:  "Error: 'query' parameter is required",
		},
		{
			name: "service error",
			args: map[string]any{"query": "retry"},
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, errors.New("disk gone"))
			},
			wantError: true,
			wantText:  "Error executing tool 'search_documentation': disk gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDocsService := mocks.NewMockDocsService(ctrl)
			tt.mockSetup(mockDocsService)
			s := New(mockDocsService, testIndexPath, 20)

			result, err := s.handleSearch(context.Background(), callRequest("search_documentation", tt.args))
			if err != nil {
				t.Fatalf("handleSearch() error = %v", err)
			}
			if result.IsError != tt.wantError {
				t.Errorf("IsError = %v, want %v", result.IsError, tt.wantError)
			}
			if text := resultText(t, result); !strings.Contains(text, tt.wantText) {
				t.Errorf("text = %q, want it to contain %q", text, tt.wantText)
			}
		})
	}
}

func TestServer_HandleBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	report := &indexer.Report{
		FilesIndexed:    3,
		SectionsIndexed: 9,
		Skipped:         []indexer.SkippedDocument{{Path: "bad.md", Reason: "invalid UTF-8"}},
	}

	tests := []struct {
		name      string
		args      map[string]any
		mockSetup func(*mocks.MockDocsService)
		wantError bool
		wantText  []string
	}{
		{
			name: "fresh build",
			args: map[string]any{},
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Build(gomock.Any(), false).Return(report, nil)
			},
			wantText: []string{
				"Successfully built documentation index.",
				"Warning: Failed to read bad.md: invalid UTF-8",
				"Indexed 3 files with 9 sections.",
			},
		},
		{
			name: "existing index without force",
			args: map[string]any{"force": false},
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Build(gomock.Any(), false).
					Return(nil, fmt.Errorf("%w at %s", service.ErrIndexExists, testIndexPath))
			},
			wantText: []string{
				"Warning: An index already exists at: " + testIndexPath,
				`{"force": true}`,
			},
		},
		{
			name: "forced build",
			args: map[string]any{"force": true},
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Build(gomock.Any(), true).Return(report, nil)
			},
			wantText: []string{"Successfully built documentation index."},
		},
		{
			name: "build failure",
			args: map[string]any{"force": true},
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Build(gomock.Any(), true).Return(nil, errors.New("commit failed"))
			},
			wantError: true,
			wantText:  []string{"Error building index: commit failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDocsService := mocks.NewMockDocsService(ctrl)
			tt.mockSetup(mockDocsService)
			s := New(mockDocsService, testIndexPath, 20)

			result, err := s.handleBuild(context.Background(), callRequest("build_documentation_index", tt.args))
			if err != nil {
				t.Fatalf("handleBuild() error = %v", err)
			}
			if result.IsError != tt.wantError {
				t.Errorf("IsError = %v, want %v", result.IsError, tt.wantError)
			}
			text := resultText(t, result)
			for _, want := range tt.wantText {
				if !strings.Contains(text, want) {
					t.Errorf("text = %q, want it to contain %q", text, want)
				}
			}
		})
	}
}

func TestServer_HandleUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("success", func(t *testing.T) {
		mockDocsService := mocks.NewMockDocsService(ctrl)
		mockDocsService.EXPECT().Update(gomock.Any()).Return(&indexer.Report{
			Warnings: []string{"Documentation root not found: ./references"},
		}, nil)

		result, err := New(mockDocsService, testIndexPath, 20).
			handleUpdate(context.Background(), callRequest("update_documentation_index", nil))
		if err != nil {
			t.Fatalf("handleUpdate() error = %v", err)
		}
		text := resultText(t, result)
		for _, want := range []string{
			"Successfully updated documentation index.",
			"Warning: Documentation root not found: ./references",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("text = %q, want it to contain %q", text, want)
			}
		}
	})

	t.Run("failure", func(t *testing.T) {
		mockDocsService := mocks.NewMockDocsService(ctrl)
		mockDocsService.EXPECT().Update(gomock.Any()).Return(nil, errors.New("locked"))

		result, err := New(mockDocsService, testIndexPath, 20).
			handleUpdate(context.Background(), callRequest("update_documentation_index", nil))
		if err != nil {
			t.Fatalf("handleUpdate() error = %v", err)
		}
		if !result.IsError || resultText(t, result) != "Error updating index: locked" {
			t.Errorf("result = %+v, want error result", result)
		}
	})
}

func TestServer_HandleInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDocsService := mocks.NewMockDocsService(ctrl)
	mockDocsService.EXPECT().Info(gomock.Any()).Return(&service.IndexInfo{
		DocsRoot:   "./references",
		IndexPath:  testIndexPath,
		RootExists: true,
		Documents:  12,
	}, nil)

	result, err := New(mockDocsService, testIndexPath, 20).
		handleInfo(context.Background(), callRequest("get_index_info", nil))
	if err != nil {
		t.Fatalf("handleInfo() error = %v", err)
	}
	text := resultText(t, result)
	for _, want := range []string{
		"Documentation Root: ./references",
		"Index Exists: No",
		"Documentation Files Found: 12",
		"Index not built yet",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text = %q, want it to contain %q", text, want)
		}
	}
}
