package usecase

import (
	"context"
	"fmt"

	"github.com/renewintel/ddroom/internal/core/ports"
)

// RemoveDocumentUseCase deletes a document end to end: vector index
// first, then stored bytes, then metadata. Index deletion is idempotent,
// so retrying after a partial failure is safe.
type RemoveDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	indexer *IndexDocumentUseCase
}

func NewRemoveDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	indexer *IndexDocumentUseCase,
) *RemoveDocumentUseCase {
	return &RemoveDocumentUseCase{
		repo:    repo,
		storage: storage,
		indexer: indexer,
	}
}

func (uc *RemoveDocumentUseCase) Remove(ctx context.Context, id string) error {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	if err := uc.indexer.DeleteDocumentIndex(ctx, doc.ID); err != nil {
		return err
	}

	if err := uc.storage.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete stored document: %w", err)
	}

	if err := uc.repo.Delete(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete document metadata: %w", err)
	}

	return nil
}
