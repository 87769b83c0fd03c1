package usecase

import (
	"context"
	"fmt"

	"github.com/renewintel/ddroom/internal/core/domain"
	"github.com/renewintel/ddroom/internal/core/ports"
)

// ChecklistUseCase exposes the DD checklist workflow over the store.
type ChecklistUseCase struct {
	store ports.ChecklistStore
}

func NewChecklistUseCase(store ports.ChecklistStore) *ChecklistUseCase {
	return &ChecklistUseCase{store: store}
}

// SeedCatalog loads the standard checklist template into the store.
// Seeding is idempotent: existing items keep their workflow state.
func (uc *ChecklistUseCase) SeedCatalog(ctx context.Context) error {
	items, err := domain.ChecklistCatalog()
	if err != nil {
		return fmt.Errorf("load checklist catalog: %w", err)
	}
	if err := uc.store.Seed(ctx, items); err != nil {
		return fmt.Errorf("seed checklist: %w", err)
	}
	return nil
}

func (uc *ChecklistUseCase) List(ctx context.Context, category string) ([]domain.ChecklistItem, error) {
	items, err := uc.store.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list checklist: %w", err)
	}
	return items, nil
}

func (uc *ChecklistUseCase) Update(ctx context.Context, id string, update domain.ChecklistUpdate) (*domain.ChecklistItem, error) {
	item, err := uc.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch checklist item: %w", err)
	}

	if update.Status != nil {
		if !validChecklistStatus(*update.Status) {
			return nil, domain.WrapError(domain.ErrInvalidInput, "update checklist item",
				fmt.Errorf("unknown status %q", *update.Status))
		}
		item.Status = *update.Status
	}
	if update.Notes != nil {
		item.Notes = *update.Notes
	}
	if update.DocumentIDs != nil {
		item.DocumentIDs = update.DocumentIDs
	}

	if err := uc.store.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update checklist item: %w", err)
	}
	return item, nil
}

func (uc *ChecklistUseCase) Status(ctx context.Context) (domain.ChecklistStatus, error) {
	items, err := uc.store.List(ctx, "")
	if err != nil {
		return domain.ChecklistStatus{}, fmt.Errorf("list checklist: %w", err)
	}
	return domain.ComputeChecklistStatus(items), nil
}

func validChecklistStatus(s domain.ChecklistItemStatus) bool {
	switch s {
	case domain.ChecklistNotStarted, domain.ChecklistPending, domain.ChecklistReceived,
		domain.ChecklistUnderReview, domain.ChecklistApproved, domain.ChecklistRejected,
		domain.ChecklistNotApplicable:
		return true
	default:
		return false
	}
}
