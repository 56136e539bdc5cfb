package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vkuznetsov/askdata/internal/core/domain"
	"github.com/vkuznetsov/askdata/internal/observability/metrics"
)

type queryFake struct {
	resp        *domain.QueryResponse
	err         error
	suggestions []string
	lastText    string
}

func (f *queryFake) ProcessQuery(_ context.Context, text string) (*domain.QueryResponse, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *queryFake) GetSuggestions(_ context.Context, _ string) []string {
	return f.suggestions
}

type ingestFake struct {
	doc          *domain.DocumentRecord
	err          error
	lastFilename string
}

func (f *ingestFake) Upload(_ context.Context, filename, _ string, _ io.Reader) (*domain.DocumentRecord, error) {
	f.lastFilename = filename
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type docStoreFake struct {
	docs  map[string]*domain.DocumentRecord
	stats domain.CorpusStats
}

func (f *docStoreFake) Create(_ context.Context, _ *domain.DocumentRecord) error { return nil }

func (f *docStoreFake) GetByID(_ context.Context, id string) (*domain.DocumentRecord, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("id %s", id))
	}
	return doc, nil
}

func (f *docStoreFake) UpdateStatus(_ context.Context, _ string, _ domain.DocumentStatus, _ string) error {
	return nil
}

func (f *docStoreFake) SaveProcessed(_ context.Context, _ *domain.DocumentRecord) error { return nil }

func (f *docStoreFake) ListReady(_ context.Context) ([]domain.DocumentRecord, error) {
	return nil, nil
}

func (f *docStoreFake) Stats(_ context.Context) (domain.CorpusStats, error) {
	return f.stats, nil
}

type historyLogFake struct {
	entries []domain.HistoryEntry
	limits  []int
}

func (f *historyLogFake) Append(_ context.Context, entry domain.HistoryEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *historyLogFake) ListRecent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	f.limits = append(f.limits, limit)
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

type schemaRegistryFake struct {
	current *domain.SchemaDescription
	setErr  error
}

func (f *schemaRegistryFake) Set(_ context.Context, schema *domain.SchemaDescription) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.current = schema
	return nil
}

func (f *schemaRegistryFake) Current() *domain.SchemaDescription { return f.current }

type fixture struct {
	query   *queryFake
	ingest  *ingestFake
	docs    *docStoreFake
	history *historyLogFake
	schemas *schemaRegistryFake
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		query:   &queryFake{},
		ingest:  &ingestFake{},
		docs:    &docStoreFake{docs: map[string]*domain.DocumentRecord{}},
		history: &historyLogFake{},
		schemas: &schemaRegistryFake{},
	}
	router := NewRouter(
		f.query, f.ingest, f.docs, f.history, f.schemas,
		metrics.NewHTTPServerMetrics("test"),
		Options{},
	)
	f.handler = router.Handler()
	return f
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestProcessQueryHappyPath(t *testing.T) {
	f := newFixture(t)
	f.query.resp = &domain.QueryResponse{
		ID:           "q-1",
		Query:        "how many employees",
		Class:        domain.ClassStructured,
		GeneratedSQL: "SELECT COUNT(*) AS employee_count FROM employees",
		Results:      []domain.ResultRow{{"employee_count": 245}},
		TotalResults: 1,
		Sources:      []domain.SourceTag{domain.SourceDatabase},
		Metadata:     map[string]any{},
	}

	body := strings.NewReader(`{"query": "how many employees"}`)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/query", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp domain.QueryResponse
	decodeBody(t, rec, &resp)
	if resp.ID != "q-1" || resp.TotalResults != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if f.query.lastText != "how many employees" {
		t.Fatalf("query text not forwarded, got %q", f.query.lastText)
	}
}

func TestProcessQueryMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"empty query", domain.WrapError(domain.ErrEmptyQuery, "process", fmt.Errorf("blank")), http.StatusBadRequest},
		{"schema unavailable", domain.WrapError(domain.ErrSchemaUnavailable, "process", fmt.Errorf("none")), http.StatusServiceUnavailable},
		{"unknown failure", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.query.err = tc.err

			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, httptest.NewRequest(
				http.MethodPost, "/v1/query", strings.NewReader(`{"query": "x"}`)))

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestProcessQueryRejectsWrongMethod(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/query", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestProcessQueryRejectsMalformedJSON(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPost, "/v1/query", strings.NewReader("{not-json")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSuggestions(t *testing.T) {
	f := newFixture(t)
	f.query.suggestions = []string{"How many employees are there?", "What is the average salary?"}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/query/suggestions?q=how", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Suggestions) != 2 {
		t.Fatalf("suggestions = %v", resp.Suggestions)
	}
}

func TestQueryHistoryDefaultsAndLimit(t *testing.T) {
	f := newFixture(t)
	f.history.entries = []domain.HistoryEntry{
		{ID: "q-1", Query: "a", Class: domain.ClassStructured, Timestamp: time.Now()},
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/query/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(f.history.limits) != 1 || f.history.limits[0] != 10 {
		t.Fatalf("default limit not applied: %v", f.history.limits)
	}

	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/query/history?limit=3", nil))
	if f.history.limits[len(f.history.limits)-1] != 3 {
		t.Fatalf("explicit limit not forwarded: %v", f.history.limits)
	}

	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/query/history?limit=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid limit must 400, got %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadDocumentAccepted(t *testing.T) {
	f := newFixture(t)
	f.ingest.doc = &domain.DocumentRecord{
		ID:       "doc-1",
		Filename: "notes.txt",
		FileType: ".txt",
		Status:   domain.StatusUploaded,
	}

	body, contentType := multipartUpload(t, "notes.txt", "hello world")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if f.ingest.lastFilename != "notes.txt" {
		t.Fatalf("filename not forwarded: %q", f.ingest.lastFilename)
	}
	var doc domain.DocumentRecord
	decodeBody(t, rec, &doc)
	if doc.ID != "doc-1" || doc.Status != domain.StatusUploaded {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestUploadDocumentUnsupportedFormat(t *testing.T) {
	f := newFixture(t)
	f.ingest.err = domain.WrapError(domain.ErrUnsupportedFormat, "upload", fmt.Errorf(".exe"))

	body, contentType := multipartUpload(t, "virus.exe", "mz")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
}

func TestUploadDocumentRequiresFileField(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPost, "/v1/documents", strings.NewReader("not multipart")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetDocumentByID(t *testing.T) {
	f := newFixture(t)
	f.docs.docs["doc-1"] = &domain.DocumentRecord{ID: "doc-1", Filename: "notes.txt", Status: domain.StatusReady}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents/doc-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing document must 404, got %d", rec.Code)
	}
}

func TestDocumentStats(t *testing.T) {
	f := newFixture(t)
	f.docs.stats = domain.CorpusStats{
		TotalDocuments: 2,
		FileTypes:      map[string]int{".txt": 1, ".pdf": 1},
		TotalChunks:    7,
		TotalWords:     1200,
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats domain.CorpusStats
	decodeBody(t, rec, &stats)
	if stats.TotalDocuments != 2 || stats.TotalChunks != 7 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/schema", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty registry must 404, got %d", rec.Code)
	}

	snapshot, err := json.Marshal(domain.DemoSchema())
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/schema", bytes.NewReader(snapshot)))
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/schema", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got domain.SchemaDescription
	decodeBody(t, rec, &got)
	if got.TotalTables != 4 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestSchemaPutRejectsInvalidSnapshot(t *testing.T) {
	f := newFixture(t)
	f.schemas.setErr = domain.WrapError(domain.ErrInvalidInput, "set schema", fmt.Errorf("ghost table"))

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPut, "/v1/schema", strings.NewReader(`{"tables": []}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header must be generated")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "client-supplied")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "client-supplied" {
		t.Fatalf("client request id must be echoed, got %q", got)
	}
}
