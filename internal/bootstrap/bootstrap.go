package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/renewintel/ddroom/internal/config"
	"github.com/renewintel/ddroom/internal/core/ports"
	"github.com/renewintel/ddroom/internal/core/usecase"
	"github.com/renewintel/ddroom/internal/infrastructure/chunking"
	"github.com/renewintel/ddroom/internal/infrastructure/extractor"
	"github.com/renewintel/ddroom/internal/infrastructure/llm/ollama"
	"github.com/renewintel/ddroom/internal/infrastructure/queue/nats"
	"github.com/renewintel/ddroom/internal/infrastructure/repository/postgres"
	"github.com/renewintel/ddroom/internal/infrastructure/resilience"
	"github.com/renewintel/ddroom/internal/infrastructure/storage/localfs"
	"github.com/renewintel/ddroom/internal/infrastructure/vector/qdrant"
)

// App wires configuration into infrastructure and usecases. Both
// binaries build the same graph; each uses the slice it needs.
type App struct {
	Config config.Config

	Queue ports.MessageQueue

	Ingest     ports.DocumentIngestor
	Documents  ports.DocumentReader
	Remover    ports.DocumentRemover
	Processor  ports.DocumentProcessor
	Classifier ports.ClassifierService
	Extractor  ports.TermExtractorService
	QA         ports.QAService
	Checklist  *usecase.ChecklistUseCase
	Summary    ports.SummaryService

	db      *sql.DB
	closeFn func()
}

func New(_ context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	documents := postgres.NewDocumentRepository(db)
	projects := postgres.NewProjectRepository(db)
	checklistStore := postgres.NewChecklistStore(db)
	findings := postgres.NewFindingStore(db)
	issues := postgres.NewIssueStore(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	llm := ollama.New(ollama.Options{
		BaseURL:            cfg.OllamaURL,
		GenerationModel:    cfg.OllamaGenModel,
		EmbeddingModel:     cfg.OllamaEmbedModel,
		ResilienceExecutor: executor,
	})
	embedder := ollama.NewEmbedder(llm)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap, chunking.ApproxCounter{})
	textExtractor := extractor.New()

	classifier := usecase.NewClassifyUseCase(llm, cfg.MinClassificationConfidence, cfg.LLMExcerptChars)
	termExtractor := usecase.NewExtractTermsUseCase(llm, cfg.ExtractionMaxChars)
	indexer := usecase.NewIndexDocumentUseCase(chunker, embedder, vectorDB, cfg.EmbedBatchSize)

	ingest := usecase.NewIngestDocumentUseCase(documents, storage, queue)
	processor := usecase.NewProcessDocumentUseCase(
		documents, projects, findings, issues,
		storage, textExtractor, classifier, termExtractor, indexer,
		cfg.UseLLMClassification, cfg.UseLLMExtraction,
	)
	remover := usecase.NewRemoveDocumentUseCase(documents, storage, indexer)
	qa := usecase.NewAnswerUseCase(embedder, vectorDB, llm)
	checklist := usecase.NewChecklistUseCase(checklistStore)
	summary := usecase.NewSummaryUseCase(projects, checklistStore, findings, issues, llm)

	return &App{
		Config: cfg,
		Queue:  queue,

		Ingest:     ingest,
		Documents:  documents,
		Remover:    remover,
		Processor:  processor,
		Classifier: classifier,
		Extractor:  termExtractor,
		QA:         qa,
		Checklist:  checklist,
		Summary:    summary,

		db: db,
		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// EnsureSchema creates the database schema and seeds the checklist
// catalog. The API binary runs this once at startup; the worker assumes
// the schema already exists.
func (a *App) EnsureSchema(ctx context.Context) error {
	if err := postgres.EnsureSchema(ctx, a.db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if err := a.Checklist.SeedCatalog(ctx); err != nil {
		return fmt.Errorf("seed checklist catalog: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
