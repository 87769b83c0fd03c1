package ports

import (
	"context"
	"io"

	"github.com/renewintel/ddroom/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveClassification(ctx context.Context, id string, cls domain.Classification) error
	SetChunkCount(ctx context.Context, id string, chunks int) error
	Delete(ctx context.Context, id string) error
}

// ProjectRepository reads project attributes and stores extracted terms.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	SaveTerms(ctx context.Context, projectID string, terms domain.PPATerms) error
}

// ChecklistStore persists checklist items and their workflow state.
type ChecklistStore interface {
	Seed(ctx context.Context, items []domain.ChecklistItem) error
	List(ctx context.Context, category string) ([]domain.ChecklistItem, error)
	GetByID(ctx context.Context, id string) (*domain.ChecklistItem, error)
	Update(ctx context.Context, item *domain.ChecklistItem) error
}

// IssueStore records and lists project issues for the summary.
type IssueStore interface {
	Create(ctx context.Context, issue *domain.Issue) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Issue, error)
}

// FindingStore records per-document review findings.
type FindingStore interface {
	Save(ctx context.Context, projectID string, finding domain.Finding) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Finding, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes document-uploaded events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document, data io.Reader) (string, error)
}

// CompletionClient produces a completion for a system/user prompt pair.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits text into token-bounded chunks.
type Chunker interface {
	Split(text string) []string
}

// TokenCounter estimates token counts for chunk sizing.
type TokenCounter interface {
	Count(text string) int
}

// VectorStore indexes chunks and performs filtered semantic search.
type VectorStore interface {
	Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}
