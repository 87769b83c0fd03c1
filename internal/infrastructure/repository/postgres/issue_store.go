package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/renewintel/ddroom/internal/core/domain"
)

type IssueStore struct {
	db *sql.DB
}

func NewIssueStore(db *sql.DB) *IssueStore {
	return &IssueStore{db: db}
}

func (s *IssueStore) Create(ctx context.Context, issue *domain.Issue) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO issues (id, project_id, severity, description)
VALUES ($1,$2,$3,$4)
`, issue.ID, issue.ProjectID, string(issue.Severity), issue.Description)
	if err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

func (s *IssueStore) ListByProject(ctx context.Context, projectID string) ([]domain.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, project_id, severity, description
FROM issues
WHERE project_id = $1
ORDER BY created_at
`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	var issues []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		var severity string
		if err := rows.Scan(&issue.ID, &issue.ProjectID, &severity, &issue.Description); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issue.Severity = domain.IssueSeverity(severity)
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}
	return issues, nil
}
