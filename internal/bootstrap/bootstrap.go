// Package bootstrap wires configuration into a running dependency graph.
// Demo mode assembles an entirely in-process stack; otherwise Postgres,
// NATS and the optional collaborators are connected.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vkuznetsov/askdata/internal/config"
	"github.com/vkuznetsov/askdata/internal/core/domain"
	"github.com/vkuznetsov/askdata/internal/core/ports"
	"github.com/vkuznetsov/askdata/internal/core/usecase"
	cachemem "github.com/vkuznetsov/askdata/internal/infrastructure/cache/memory"
	"github.com/vkuznetsov/askdata/internal/infrastructure/chunking"
	"github.com/vkuznetsov/askdata/internal/infrastructure/embedding/ollama"
	"github.com/vkuznetsov/askdata/internal/infrastructure/extractor"
	neo4jgraph "github.com/vkuznetsov/askdata/internal/infrastructure/graph/neo4j"
	"github.com/vkuznetsov/askdata/internal/infrastructure/queue/inline"
	natsqueue "github.com/vkuznetsov/askdata/internal/infrastructure/queue/nats"
	repomem "github.com/vkuznetsov/askdata/internal/infrastructure/repository/memory"
	"github.com/vkuznetsov/askdata/internal/infrastructure/repository/postgres"
	"github.com/vkuznetsov/askdata/internal/infrastructure/resilience"
	rowsdemo "github.com/vkuznetsov/askdata/internal/infrastructure/rows/demo"
	"github.com/vkuznetsov/askdata/internal/infrastructure/storage/localfs"
)

// App is the assembled dependency graph shared by the api, worker and
// mcp entry points. Fields are the inbound/outbound ports the adapters
// consume; the concrete stack behind them depends on configuration.
type App struct {
	Cfg    config.Config
	Logger *slog.Logger

	Query     ports.QueryService
	Ingestor  ports.DocumentIngestor
	Processor ports.DocumentProcessor
	Documents ports.DocumentStore
	History   ports.HistoryLog
	Schemas   ports.SchemaRegistry
	Queue     ports.MessageQueue

	closers []func(context.Context) error
}

func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Cfg: cfg, Logger: logger}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	var (
		documents ports.DocumentStore
		history   ports.HistoryLog
		executor  ports.RowExecutor
	)
	if cfg.DemoMode {
		documents = repomem.NewDocumentStore()
		history = repomem.NewHistoryLog(cfg.HistoryWindow)
		executor = rowsdemo.New()
	} else {
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return db.Close() })

		docRepo := postgres.NewDocumentRepository(db)
		if err := docRepo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure documents schema: %w", err)
		}
		histRepo := postgres.NewHistoryRepository(db)
		if err := histRepo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure history schema: %w", err)
		}

		documents = docRepo
		history = histRepo
		executor = postgres.NewRowExecutor(db)
	}

	var graph ports.SchemaGraph
	if cfg.Neo4jEnabled {
		mirror, err := neo4jgraph.NewMirror(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			return nil, fmt.Errorf("connect neo4j: %w", err)
		}
		app.closers = append(app.closers, mirror.Close)
		graph = mirror
	}

	schemas := usecase.NewSchemaHolder(graph)
	if cfg.DemoMode {
		if err := schemas.Set(ctx, domain.DemoSchema()); err != nil {
			return nil, fmt.Errorf("install demo schema: %w", err)
		}
	}

	var embedder ports.Embedder
	if cfg.EmbeddingEnabled {
		embedder = ollama.NewEmbedder(cfg.OllamaURL, cfg.OllamaEmbedModel)
	}

	processor := usecase.NewProcessDocumentUseCase(
		documents,
		storage,
		extractor.New(),
		chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder,
	)
	app.Processor = processor

	var queue ports.MessageQueue
	if cfg.DemoMode {
		queue = inline.New(processor)
	} else {
		nq, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
			ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		})
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error {
			nq.Close()
			return nil
		})
		queue = nq
	}

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	engine := usecase.NewEngine(
		cachemem.New(cacheTTL),
		history,
		schemas,
		usecase.NewClassifier(),
		usecase.NewStructuredRetriever(executor, cfg.SearchLimit),
		usecase.NewUnstructuredRetriever(documents, cfg.SearchLimit),
	)

	app.Query = engine
	app.Ingestor = usecase.NewIngestDocumentUseCase(documents, storage, queue)
	app.Documents = documents
	app.History = history
	app.Schemas = schemas
	app.Queue = queue

	logger.Info("application wired",
		"demo_mode", cfg.DemoMode,
		"embedding_enabled", cfg.EmbeddingEnabled,
		"neo4j_enabled", cfg.Neo4jEnabled,
	)
	return app, nil
}

// Close releases external connections in reverse wiring order.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Logger.Warn("close dependency", "error", err)
		}
	}
}
