package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/renewintel/ddroom/internal/core/domain"
)

func checklistItems() []domain.ChecklistItem {
	return []domain.ChecklistItem{
		{ID: "legal_001", Category: "legal", ItemName: "Signed PPA", Status: domain.ChecklistApproved},
		{ID: "legal_002", Category: "legal", ItemName: "Land lease agreements", Status: domain.ChecklistUnderReview},
		{ID: "tech_001", Category: "technical", ItemName: "Interconnection agreement", Status: domain.ChecklistNotStarted},
		{ID: "fin_001", Category: "financial", ItemName: "Financial model", Status: domain.ChecklistNotApplicable},
	}
}

func TestChecklistSeedCatalog(t *testing.T) {
	store := &checklistStoreFake{}
	uc := NewChecklistUseCase(store)

	if err := uc.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}
	if len(store.seeded) != 48 {
		t.Fatalf("seeded %d items, want 48", len(store.seeded))
	}
	for _, item := range store.seeded {
		if item.Status != domain.ChecklistNotStarted {
			t.Fatalf("item %s seeded with status %q", item.ID, item.Status)
		}
	}
}

func TestChecklistListFiltersByCategory(t *testing.T) {
	store := &checklistStoreFake{items: checklistItems()}
	uc := NewChecklistUseCase(store)

	items, err := uc.List(context.Background(), "legal")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d legal items, want 2", len(items))
	}
	for _, item := range items {
		if item.Category != "legal" {
			t.Fatalf("unexpected category %q", item.Category)
		}
	}
}

func TestChecklistUpdateAppliesPartialChanges(t *testing.T) {
	store := &checklistStoreFake{items: checklistItems()}
	uc := NewChecklistUseCase(store)

	status := domain.ChecklistReceived
	notes := "received via data room upload"
	item, err := uc.Update(context.Background(), "tech_001", domain.ChecklistUpdate{
		Status:      &status,
		Notes:       &notes,
		DocumentIDs: []string{"doc-1", "doc-2"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if item.Status != domain.ChecklistReceived {
		t.Fatalf("status = %q", item.Status)
	}
	if item.Notes != notes {
		t.Fatalf("notes = %q", item.Notes)
	}
	if len(item.DocumentIDs) != 2 {
		t.Fatalf("document ids = %v", item.DocumentIDs)
	}
	if item.ItemName != "Interconnection agreement" {
		t.Fatalf("catalog field changed: %q", item.ItemName)
	}
	if len(store.updated) != 1 || store.updated[0].ID != "tech_001" {
		t.Fatalf("store updates = %+v", store.updated)
	}
}

func TestChecklistUpdateLeavesNilFieldsUntouched(t *testing.T) {
	items := checklistItems()
	items[1].Notes = "pending counsel review"
	items[1].DocumentIDs = []string{"doc-9"}
	store := &checklistStoreFake{items: items}
	uc := NewChecklistUseCase(store)

	status := domain.ChecklistApproved
	item, err := uc.Update(context.Background(), "legal_002", domain.ChecklistUpdate{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if item.Status != domain.ChecklistApproved {
		t.Fatalf("status = %q", item.Status)
	}
	if item.Notes != "pending counsel review" {
		t.Fatalf("notes overwritten: %q", item.Notes)
	}
	if len(item.DocumentIDs) != 1 || item.DocumentIDs[0] != "doc-9" {
		t.Fatalf("document ids overwritten: %v", item.DocumentIDs)
	}
}

func TestChecklistUpdateRejectsUnknownStatus(t *testing.T) {
	store := &checklistStoreFake{items: checklistItems()}
	uc := NewChecklistUseCase(store)

	status := domain.ChecklistItemStatus("done")
	_, err := uc.Update(context.Background(), "legal_001", domain.ChecklistUpdate{Status: &status})
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("error kind = %v", err)
	}
	if len(store.updated) != 0 {
		t.Fatalf("store updated despite invalid status: %+v", store.updated)
	}
}

func TestChecklistUpdateUnknownItem(t *testing.T) {
	store := &checklistStoreFake{items: checklistItems()}
	uc := NewChecklistUseCase(store)

	_, err := uc.Update(context.Background(), "legal_999", domain.ChecklistUpdate{})
	if !errors.Is(err, domain.ErrChecklistNotFound) {
		t.Fatalf("error = %v, want ErrChecklistNotFound", err)
	}
}

func TestChecklistStatusCountsApprovedOnly(t *testing.T) {
	store := &checklistStoreFake{items: checklistItems()}
	uc := NewChecklistUseCase(store)

	status, err := uc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.TotalItems != 4 {
		t.Fatalf("total = %d", status.TotalItems)
	}
	if status.CompletedItems != 1 {
		t.Fatalf("completed = %d", status.CompletedItems)
	}
	if status.CompletionPercentage != 25.0 {
		t.Fatalf("completion = %v", status.CompletionPercentage)
	}
	legal := status.ByCategory["legal"]
	if legal.Total != 2 || legal.Completed != 1 {
		t.Fatalf("legal completion = %+v", legal)
	}
	fin := status.ByCategory["financial"]
	if fin.Completed != 0 {
		t.Fatalf("not_applicable counted as completed: %+v", fin)
	}
}

func TestChecklistStatusStoreError(t *testing.T) {
	store := &checklistStoreFake{listErr: errors.New("store offline")}
	uc := NewChecklistUseCase(store)

	if _, err := uc.Status(context.Background()); err == nil {
		t.Fatal("expected error from store")
	}
}
