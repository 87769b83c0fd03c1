package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/renewintel/ddroom/internal/core/domain"
)

type ChecklistStore struct {
	db *sql.DB
}

func NewChecklistStore(db *sql.DB) *ChecklistStore {
	return &ChecklistStore{db: db}
}

// Seed inserts catalog items that are not present yet. Existing rows
// keep their workflow state, so reseeding at startup is safe.
func (s *ChecklistStore) Seed(ctx context.Context, items []domain.ChecklistItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		docIDs, err := json.Marshal(emptyIfNil(item.DocumentIDs))
		if err != nil {
			return fmt.Errorf("marshal document ids: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO checklist_items (
	id, category, subcategory, item_name, description, priority, responsible_party, status, document_ids, notes,
	requires_legal_review, requires_technical_review, requires_financial_review
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO NOTHING
`,
			item.ID, item.Category, item.Subcategory, item.ItemName, item.Description,
			string(item.Priority), string(item.ResponsibleParty), string(item.Status), docIDs, item.Notes,
			item.RequiresLegalReview, item.RequiresTechnicalReview, item.RequiresFinancialReview,
		)
		if err != nil {
			return fmt.Errorf("seed checklist item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

func (s *ChecklistStore) List(ctx context.Context, category string) ([]domain.ChecklistItem, error) {
	query := `
SELECT id, category, subcategory, item_name, description, priority, responsible_party, status, document_ids, notes,
	requires_legal_review, requires_technical_review, requires_financial_review
FROM checklist_items
`
	args := []any{}
	if category != "" {
		query += "WHERE category = $1\n"
		args = append(args, category)
	}
	query += "ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()

	var items []domain.ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklist items: %w", err)
	}
	return items, nil
}

func (s *ChecklistStore) GetByID(ctx context.Context, id string) (*domain.ChecklistItem, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, category, subcategory, item_name, description, priority, responsible_party, status, document_ids, notes,
	requires_legal_review, requires_technical_review, requires_financial_review
FROM checklist_items
WHERE id = $1
`, id)

	item, err := scanChecklistItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrChecklistNotFound, "get checklist item", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan checklist item: %w", err)
	}
	return item, nil
}

func (s *ChecklistStore) Update(ctx context.Context, item *domain.ChecklistItem) error {
	docIDs, err := json.Marshal(emptyIfNil(item.DocumentIDs))
	if err != nil {
		return fmt.Errorf("marshal document ids: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE checklist_items
SET status = $2, document_ids = $3, notes = $4
WHERE id = $1
`, item.ID, string(item.Status), docIDs, item.Notes)
	if err != nil {
		return fmt.Errorf("update checklist item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrChecklistNotFound, "update checklist item", fmt.Errorf("id %s", item.ID))
	}
	return nil
}

func scanChecklistItem(row rowScanner) (*domain.ChecklistItem, error) {
	var item domain.ChecklistItem
	var priority, party, status string
	var docIDsRaw []byte

	err := row.Scan(
		&item.ID, &item.Category, &item.Subcategory, &item.ItemName, &item.Description,
		&priority, &party, &status, &docIDsRaw, &item.Notes,
		&item.RequiresLegalReview, &item.RequiresTechnicalReview, &item.RequiresFinancialReview,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(docIDsRaw, &item.DocumentIDs); err != nil {
		return nil, fmt.Errorf("unmarshal document ids: %w", err)
	}
	item.Priority = domain.ChecklistPriority(priority)
	item.ResponsibleParty = domain.ResponsibleParty(party)
	item.Status = domain.ChecklistItemStatus(status)
	return &item, nil
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
