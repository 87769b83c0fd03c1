package usecase

import (
	"context"
	"fmt"

	"github.com/renewintel/ddroom/internal/core/domain"
	"github.com/renewintel/ddroom/internal/core/ports"
)

// IndexDocumentUseCase chunks document text, embeds the chunks and
// writes them to the vector store in batches. Embedding and upsert
// failures are fatal: a partially indexed document is reported as an
// error so the caller can retry the whole document.
type IndexDocumentUseCase struct {
	chunker   ports.Chunker
	embedder  ports.Embedder
	vectorDB  ports.VectorStore
	batchSize int
}

func NewIndexDocumentUseCase(
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	batchSize int,
) *IndexDocumentUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &IndexDocumentUseCase{
		chunker:   chunker,
		embedder:  embedder,
		vectorDB:  vectorDB,
		batchSize: batchSize,
	}
}

// IndexDocument returns the number of chunks written. Point identity in
// the store derives from (document id, chunk index), so re-indexing the
// same document overwrites its previous chunks.
func (uc *IndexDocumentUseCase) IndexDocument(ctx context.Context, doc *domain.Document, text string) (int, error) {
	pieces := uc.chunker.Split(text)
	if len(pieces) == 0 {
		return 0, nil
	}

	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = domain.Chunk{
			Text:         piece,
			Index:        i,
			TotalChunks:  len(pieces),
			DocumentID:   doc.ID,
			Filename:     doc.Filename,
			ProjectID:    doc.ProjectID,
			DocumentType: doc.DocumentType,
		}
	}

	for start := 0; start < len(chunks); start += uc.batchSize {
		end := min(start+uc.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := uc.embedder.Embed(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embed chunks: %w", err)
		}
		if len(vectors) != len(batch) {
			return 0, domain.WrapError(
				domain.ErrInvalidInput,
				"embed chunks",
				fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(batch)),
			)
		}

		if err := uc.vectorDB.Upsert(ctx, batch, vectors); err != nil {
			return 0, fmt.Errorf("upsert chunks: %w", err)
		}
	}

	return len(chunks), nil
}

// DeleteDocumentIndex removes every chunk of a document from the vector
// store. Deleting an unindexed document is a no-op.
func (uc *IndexDocumentUseCase) DeleteDocumentIndex(ctx context.Context, documentID string) error {
	if err := uc.vectorDB.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document index: %w", err)
	}
	return nil
}
