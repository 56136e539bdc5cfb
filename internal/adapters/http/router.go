package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vkuznetsov/askdata/internal/core/domain"
	"github.com/vkuznetsov/askdata/internal/core/ports"
	"github.com/vkuznetsov/askdata/internal/observability/metrics"
)

const serviceName = "askdata-api"

type Router struct {
	query   ports.QueryService
	ingest  ports.DocumentIngestor
	docs    ports.DocumentStore
	history ports.HistoryLog
	schemas ports.SchemaRegistry
	metrics *metrics.HTTPServerMetrics

	rateLimitRPS   float64
	rateLimitBurst int
	maxInFlight    int
}

type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
}

func NewRouter(
	query ports.QueryService,
	ingest ports.DocumentIngestor,
	docs ports.DocumentStore,
	history ports.HistoryLog,
	schemas ports.SchemaRegistry,
	m *metrics.HTTPServerMetrics,
	options Options,
) *Router {
	return &Router{
		query:          query,
		ingest:         ingest,
		docs:           docs,
		history:        history,
		schemas:        schemas,
		metrics:        m,
		rateLimitRPS:   options.RateLimitRPS,
		rateLimitBurst: options.RateLimitBurst,
		maxInFlight:    options.MaxInFlight,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/metrics", rt.metrics.Handler())
	mux.HandleFunc("/v1/query", rt.processQuery)
	mux.HandleFunc("/v1/query/suggestions", rt.suggestions)
	mux.HandleFunc("/v1/query/history", rt.queryHistory)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/stats", rt.documentStats)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/schema", rt.schema)

	var handler http.Handler = mux
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = backpressureMiddleware(handler, rt.maxInFlight)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) processQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	start := time.Now()
	resp, err := rt.query.ProcessQuery(r.Context(), req.Query)
	if err != nil {
		writeError(w, err)
		return
	}

	rt.metrics.RecordQuery(serviceName, string(resp.Class), resp.TotalResults, time.Since(start))
	rt.metrics.RecordCacheLookup(serviceName, resp.CacheHit)
	if _, degraded := resp.Metadata["error"]; degraded {
		rt.metrics.RecordDegraded(serviceName)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) suggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	partial := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": rt.query.GetSuggestions(r.Context(), partial),
	})
}

func (rt *Router) queryHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	entries, err := rt.history.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	rt.metrics.RecordUpload(serviceName, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.docs.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) documentStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	stats, err := rt.docs.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (rt *Router) schema(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		var snapshot domain.SchemaDescription
		if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if err := rt.schemas.Set(r.Context(), &snapshot); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "schema updated"})
	case http.MethodGet:
		current := rt.schemas.Current()
		if current == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no schema snapshot installed"})
			return
		}
		writeJSON(w, http.StatusOK, current)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
