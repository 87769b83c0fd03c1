package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/renewintel/ddroom/internal/core/domain"
)

type FindingStore struct {
	db *sql.DB
}

func NewFindingStore(db *sql.DB) *FindingStore {
	return &FindingStore{db: db}
}

// Save upserts the finding for a document, so reprocessing replaces the
// old finding instead of stacking duplicates.
func (s *FindingStore) Save(ctx context.Context, projectID string, finding domain.Finding) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO findings (document_id, project_id, document_type, summary)
VALUES ($1,$2,$3,$4)
ON CONFLICT (document_id) DO UPDATE
SET document_type = EXCLUDED.document_type, summary = EXCLUDED.summary
`, finding.DocumentID, projectID, string(finding.DocumentType), finding.Summary)
	if err != nil {
		return fmt.Errorf("save finding: %w", err)
	}
	return nil
}

func (s *FindingStore) ListByProject(ctx context.Context, projectID string) ([]domain.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT document_id, document_type, summary
FROM findings
WHERE project_id = $1
ORDER BY created_at
`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	defer rows.Close()

	var findings []domain.Finding
	for rows.Next() {
		var finding domain.Finding
		var docType string
		if err := rows.Scan(&finding.DocumentID, &docType, &finding.Summary); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		finding.DocumentType = domain.DocumentType(docType)
		findings = append(findings, finding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate findings: %w", err)
	}
	return findings, nil
}
