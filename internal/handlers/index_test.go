package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docsearch/internal/indexer"
	"docsearch/internal/service"
	"docsearch/internal/service/mocks"
	"docsearch/internal/storage"
	"go.uber.org/mock/gomock"
)

func TestIndexHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	report := &indexer.Report{FilesIndexed: 2, SectionsIndexed: 7}

	tests := []struct {
		name        string
		method      string
		target      string
		body        string
		mockSetup   func(*mocks.MockDocsService)
		wantStatus  int
		wantMessage string
	}{
		{
			name:   "build without body",
			method: http.MethodPost,
			target: "/api/index",
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Build(gomock.Any(), false).Return(report, nil)
			},
			wantStatus:  http.StatusOK,
			wantMessage: "Index build complete. Indexed 2 files with 7 sections.",
		},
		{
			name:   "force in body",
			method: http.MethodPost,
			target: "/api/index",
			body:   `{"force":true}`,
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Build(gomock.Any(), true).Return(report, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "force in query",
			method: http.MethodPost,
			target: "/api/index?force=true",
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Build(gomock.Any(), true).Return(report, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "index exists",
			method: http.MethodPost,
			target: "/api/index",
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Build(gomock.Any(), false).
					Return(nil, fmt.Errorf("%w at /tmp/index.db", service.ErrIndexExists))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "concurrent build",
			method: http.MethodPost,
			target: "/api/index",
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Build(gomock.Any(), false).
					Return(nil, service.WrapError(storage.ErrWriteConflict, "failed to build index"))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "build failure",
			method: http.MethodPost,
			target: "/api/index",
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Build(gomock.Any(), false).Return(nil, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "invalid body",
			method:     http.MethodPost,
			target:     "/api/index",
			body:       "not json",
			mockSetup:  func(m *mocks.MockDocsService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			target:     "/api/index",
			mockSetup:  func(m *mocks.MockDocsService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDocsService := mocks.NewMockDocsService(ctrl)
			tt.mockSetup(mockDocsService)

			handler := NewIndexHandler(mockDocsService)

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantMessage == "" {
				return
			}
			var resp IndexResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if resp.Report == nil || resp.Report.SectionsIndexed != 7 {
				t.Errorf("Report = %+v, want 7 sections", resp.Report)
			}
		})
	}
}

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name       string
		method     string
		mockSetup  func(*mocks.MockDocsService)
		wantStatus int
	}{
		{
			name:   "success",
			method: http.MethodPost,
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Update(gomock.Any()).Return(&indexer.Report{FilesIndexed: 1}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "failure",
			method: http.MethodPost,
			mockSetup: func(m *mocks.MockDocsService) {
				m.EXPECT().Update(gomock.Any()).Return(nil, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockDocsService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDocsService := mocks.NewMockDocsService(ctrl)
			tt.mockSetup(mockDocsService)

			handler := NewUpdateHandler(mockDocsService)

			req := httptest.NewRequest(tt.method, "/api/index/update", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
		})
	}
}
