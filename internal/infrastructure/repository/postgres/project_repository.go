package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/renewintel/ddroom/internal/core/domain"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, technology_type, capacity_mw, location, cod, ppa_terms
FROM projects
WHERE id = $1
`, id)

	var project domain.Project
	var termsRaw []byte
	err := row.Scan(&project.ID, &project.Name, &project.TechnologyType,
		&project.CapacityMW, &project.Location, &project.COD, &termsRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrProjectNotFound, "get project", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}

	if len(termsRaw) > 0 {
		var terms domain.PPATerms
		if err := json.Unmarshal(termsRaw, &terms); err != nil {
			return nil, fmt.Errorf("unmarshal ppa terms: %w", err)
		}
		project.PPATerms = &terms
	}
	return &project, nil
}

func (r *ProjectRepository) SaveTerms(ctx context.Context, projectID string, terms domain.PPATerms) error {
	termsJSON, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("marshal ppa terms: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE projects
SET ppa_terms = $2
WHERE id = $1
`, projectID, termsJSON)
	if err != nil {
		return fmt.Errorf("save ppa terms: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrProjectNotFound, "save ppa terms", fmt.Errorf("id %s", projectID))
	}
	return nil
}
