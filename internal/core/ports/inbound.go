package ports

import (
	"context"
	"io"

	"github.com/renewintel/ddroom/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, projectID, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Document, error)
}

// DocumentRemover deletes a document: vector index first, then metadata.
type DocumentRemover interface {
	Remove(ctx context.Context, id string) error
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// ClassifierService classifies extracted document text.
type ClassifierService interface {
	Classify(ctx context.Context, text, filename string, useLLM bool) (domain.Classification, error)
}

// TermExtractorService pulls structured PPA terms out of contract text.
type TermExtractorService interface {
	Extract(ctx context.Context, text string, useLLM bool) (domain.PPATerms, error)
}

// QAService is the inbound contract for RAG question answering.
type QAService interface {
	Answer(ctx context.Context, question string, filter domain.SearchFilter, maxSources int) (*domain.Answer, error)
	Compare(ctx context.Context, question string, documentIDs []string) (*domain.Comparison, error)
}

// ChecklistService manages the DD checklist workflow.
type ChecklistService interface {
	List(ctx context.Context, category string) ([]domain.ChecklistItem, error)
	Update(ctx context.Context, id string, update domain.ChecklistUpdate) (*domain.ChecklistItem, error)
	Status(ctx context.Context) (domain.ChecklistStatus, error)
}

// SummaryService generates the executive summary for a project.
type SummaryService interface {
	Generate(ctx context.Context, projectID string) (*domain.ExecutiveSummary, error)
}
