package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/renewintel/ddroom/internal/core/domain"
)

func TestUploadStoresPublishesAndPersists(t *testing.T) {
	repo := &docRepoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "p1", "Signed PPA (final).pdf", "application/pdf", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("expected generated id")
	}
	if doc.ProjectID != "p1" {
		t.Fatalf("expected project id p1, got %q", doc.ProjectID)
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("expected uploaded status, got %q", doc.Status)
	}
	if doc.Filename != "Signed PPA (final).pdf" {
		t.Fatalf("original filename must be kept, got %q", doc.Filename)
	}
	if !strings.HasSuffix(doc.StoragePath, "_Signed_PPA__final_.pdf") {
		t.Fatalf("unexpected storage key: %q", doc.StoragePath)
	}
	if _, ok := storage.saved[doc.StoragePath]; !ok {
		t.Fatalf("payload not written to storage")
	}
	if len(repo.created) != 1 {
		t.Fatalf("metadata not persisted")
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Fatalf("upload event not published: %v", queue.published)
	}
}

func TestUploadRequiresProjectID(t *testing.T) {
	uc := NewIngestDocumentUseCase(&docRepoFake{}, &storageFake{}, &queueFake{})
	_, err := uc.Upload(context.Background(), "", "a.pdf", "application/pdf", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected error without project id")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
}

func TestUploadStorageFailureAborts(t *testing.T) {
	repo := &docRepoFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, &storageFake{saveErr: errors.New("disk full")}, queue)

	if _, err := uc.Upload(context.Background(), "p1", "a.pdf", "application/pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected storage error")
	}
	if len(repo.created) != 0 || len(queue.published) != 0 {
		t.Fatalf("nothing may be persisted after storage failure")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple.pdf", "simple.pdf"},
		{"with space.pdf", "with_space.pdf"},
		{"../../etc/passwd", "passwd"},
		{"weird$chars%.txt", "weird_chars_.txt"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRemoveDeletesIndexStorageAndMetadata(t *testing.T) {
	repo := &docRepoFake{doc: &domain.Document{ID: "doc-1", StoragePath: "key-1"}}
	storage := &storageFake{}
	vectorStore := &vectorStoreFake{}
	indexer := NewIndexDocumentUseCase(&chunkerFake{}, &embedderFake{}, vectorStore, 100)
	uc := NewRemoveDocumentUseCase(repo, storage, indexer)

	if err := uc.Remove(context.Background(), "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectorStore.deleted) != 1 || vectorStore.deleted[0] != "doc-1" {
		t.Fatalf("vector index not removed: %v", vectorStore.deleted)
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "key-1" {
		t.Fatalf("stored bytes not removed: %v", storage.deleted)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "doc-1" {
		t.Fatalf("metadata not removed: %v", repo.deleted)
	}
}

func TestRemoveStopsWhenIndexDeleteFails(t *testing.T) {
	repo := &docRepoFake{doc: &domain.Document{ID: "doc-1", StoragePath: "key-1"}}
	vectorStore := &vectorStoreFake{deleteErr: errors.New("qdrant down")}
	indexer := NewIndexDocumentUseCase(&chunkerFake{}, &embedderFake{}, vectorStore, 100)
	uc := NewRemoveDocumentUseCase(repo, &storageFake{}, indexer)

	if err := uc.Remove(context.Background(), "doc-1"); err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("metadata must survive a failed index delete")
	}
}
