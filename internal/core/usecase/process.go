package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vkuznetsov/askdata/internal/core/domain"
	"github.com/vkuznetsov/askdata/internal/core/ports"
)

// Engine is the query processing facade: cache lookup, classification,
// strategy dispatch, composition, cache store, history append. All mutable
// state (cache, history, schema snapshot) is injected at construction;
// nothing is ambient.
type Engine struct {
	cache        ports.ResponseCache
	history      ports.HistoryLog
	schemas      ports.SchemaRegistry
	classifier   *Classifier
	structured   *StructuredRetriever
	unstructured *UnstructuredRetriever
	now          func() time.Time
}

func NewEngine(
	cache ports.ResponseCache,
	history ports.HistoryLog,
	schemas ports.SchemaRegistry,
	classifier *Classifier,
	structured *StructuredRetriever,
	unstructured *UnstructuredRetriever,
) *Engine {
	return &Engine{
		cache:        cache,
		history:      history,
		schemas:      schemas,
		classifier:   classifier,
		structured:   structured,
		unstructured: unstructured,
		now:          time.Now,
	}
}

// ProcessQuery is the sole entry point for free-text questions. The caller
// always receives a response object; retrieval-level faults degrade the
// response instead of failing it. Only blank input is rejected outright.
func (e *Engine) ProcessQuery(ctx context.Context, text string) (*domain.QueryResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrEmptyQuery, "process query", errors.New("blank input"))
	}

	start := e.now()
	queryID := uuid.NewString()
	key := e.cache.Key(text)

	if cached, ok := e.cache.Get(ctx, key); ok {
		cached.ID = queryID
		cached.ProcessingTimeMS = elapsedMS(e.now().Sub(start))
		e.appendHistory(ctx, cached, start)
		return cached, nil
	}

	classification := e.classifier.Classify(text)
	resp := &domain.QueryResponse{
		ID:      queryID,
		Query:   text,
		Class:   classification.Class,
		Results: []domain.ResultRow{},
		Sources: []domain.SourceTag{},
		Metadata: map[string]any{
			"structured_score":   classification.StructuredScore,
			"unstructured_score": classification.UnstructuredScore,
		},
	}

	cacheable := true
	switch {
	case classification.Fallback:
		cacheable = e.runFallback(ctx, text, resp)
	case classification.Class == domain.ClassStructured:
		e.runStructured(ctx, text, resp)
	case classification.Class == domain.ClassUnstructured:
		e.runUnstructured(ctx, text, resp)
	default:
		e.runHybrid(ctx, text, resp)
	}

	resp.TotalResults = len(resp.Results)
	resp.ProcessingTimeMS = elapsedMS(e.now().Sub(start))

	if cacheable {
		e.cache.Put(ctx, key, resp)
	}
	e.appendHistory(ctx, resp, start)
	return resp, nil
}

// GetSuggestions returns up to five catalog entries matching the partial
// input; never empty.
func (e *Engine) GetSuggestions(_ context.Context, partial string) []string {
	return Suggestions(partial)
}

func (e *Engine) runStructured(ctx context.Context, text string, resp *domain.QueryResponse) {
	result, err := e.structured.Resolve(ctx, text, e.schemas.Current())
	if err != nil {
		degrade(resp, err)
		return
	}
	applyStructured(resp, result)

	comp := composeResults(result.Rows, nil)
	resp.Results = comp.rows
	resp.Sources = comp.sources
	resp.Metadata["query_type"] = string(domain.ClassStructured)
}

func (e *Engine) runUnstructured(ctx context.Context, text string, resp *domain.QueryResponse) {
	matches, err := e.unstructured.Search(ctx, text)
	if err != nil {
		degrade(resp, err)
		return
	}

	comp := composeResults(nil, matches)
	resp.Results = comp.rows
	resp.Sources = comp.sources
	resp.Metadata["query_type"] = string(domain.ClassUnstructured)
	resp.Metadata["search_method"] = "text_matching"
}

// runHybrid dispatches both strategies concurrently; they have no mutual
// data dependency, so hybrid latency is bounded by the slower branch.
// Composer ordering stays structured-first regardless of finish order.
func (e *Engine) runHybrid(ctx context.Context, text string, resp *domain.QueryResponse) {
	outcome := e.runBoth(ctx, text)

	if outcome.structuredErr != nil && outcome.unstructuredErr != nil {
		degrade(resp, errors.Join(outcome.structuredErr, outcome.unstructuredErr))
		return
	}
	if outcome.structuredErr != nil {
		resp.Metadata["structured_error"] = outcome.structuredErr.Error()
	}
	if outcome.unstructuredErr != nil {
		resp.Metadata["unstructured_error"] = outcome.unstructuredErr.Error()
	}

	var rows []domain.ResultRow
	if outcome.structured != nil {
		applyStructured(resp, outcome.structured)
		rows = outcome.structured.Rows
	}

	comp := composeResults(rows, outcome.matches)
	resp.Results = comp.rows
	resp.Sources = comp.sources
	resp.Metadata["database_results"] = comp.metadata["database_results"]
	resp.Metadata["document_results"] = comp.metadata["document_results"]
	resp.Metadata["query_type"] = string(domain.ClassHybrid)
}

// runFallback attempts both strategies for zero-indicator queries and
// labels the result "fallback" regardless of what they produced. When
// neither strategy yields data the fixed help shape is returned, and that
// shape alone is excluded from the cache.
func (e *Engine) runFallback(ctx context.Context, text string, resp *domain.QueryResponse) (cacheable bool) {
	e.runHybrid(ctx, text, resp)
	resp.Metadata["query_type"] = "fallback"

	if len(resp.Results) > 0 {
		return true
	}

	resp.Results = []domain.ResultRow{{
		"type":        "help",
		"message":     "Unable to match your question to connected data. Try one of the suggested queries.",
		"suggestions": Suggestions(""),
	}}
	resp.Metadata["help"] = true
	return false
}

type branchOutcome struct {
	structured      *StructuredResult
	structuredErr   error
	matches         []domain.DocumentMatch
	unstructuredErr error
}

func (e *Engine) runBoth(ctx context.Context, text string) branchOutcome {
	var outcome branchOutcome

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		outcome.structured, outcome.structuredErr = e.structured.Resolve(gctx, text, e.schemas.Current())
		return nil
	})
	g.Go(func() error {
		outcome.matches, outcome.unstructuredErr = e.unstructured.Search(gctx, text)
		return nil
	})
	_ = g.Wait()

	return outcome
}

func applyStructured(resp *domain.QueryResponse, result *StructuredResult) {
	resp.GeneratedSQL = result.SQL
	resp.Metadata["sql_template"] = string(result.Template)
	resp.Metadata["tables_accessed"] = result.Tables
	if len(result.Warnings) > 0 {
		resp.Metadata["schema_warnings"] = result.Warnings
	}
}

// degrade converts a retrieval-level fault into a degraded-but-successful
// response: empty result set, zero total, error annotation.
func degrade(resp *domain.QueryResponse, err error) {
	resp.Results = []domain.ResultRow{}
	resp.Sources = []domain.SourceTag{}
	resp.Metadata["error"] = err.Error()
}

func (e *Engine) appendHistory(ctx context.Context, resp *domain.QueryResponse, at time.Time) {
	entry := domain.HistoryEntry{
		ID:               resp.ID,
		Query:            resp.Query,
		Class:            resp.Class,
		Timestamp:        at.UTC(),
		ProcessingTimeMS: resp.ProcessingTimeMS,
		CacheHit:         resp.CacheHit,
	}
	if err := e.history.Append(ctx, entry); err != nil {
		slog.Warn("history_append_failed", "query_id", resp.ID, "error", err)
	}
}

func elapsedMS(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
