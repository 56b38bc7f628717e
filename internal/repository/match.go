package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lupa-app/lupa/pkg/model"
)

// CreateMatch stores a score for a person of m.CompanyID. A person that does
// not belong to the company is ErrNotFound.
func (r *Repository) CreateMatch(ctx context.Context, m *model.Match) error {
	const q = `
INSERT INTO matches (person_id, company_id, compatibility_score, analysis_result)
SELECT $1, $2, $3, $4
WHERE EXISTS (SELECT 1 FROM people WHERE id = $1 AND company_id = $2)
RETURNING id, created_at
`
	var analysis []byte
	if len(m.AnalysisResult) > 0 {
		analysis = m.AnalysisResult
	}
	row := r.db.QueryRow(ctx, q, m.PersonID, m.CompanyID, m.CompatibilityScore, analysis)
	if err := row.Scan(&m.MatchID, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("person %s: %w", m.PersonID, ErrNotFound)
		}
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

const matchSelect = `
SELECT m.id, m.person_id, m.company_id, m.compatibility_score, m.analysis_result,
	COALESCE(p.name, ''), m.created_at
FROM matches m
JOIN people p ON p.id = m.person_id
`

func scanMatch(row pgx.Row) (model.Match, error) {
	var (
		m        model.Match
		analysis []byte
	)
	err := row.Scan(&m.MatchID, &m.PersonID, &m.CompanyID, &m.CompatibilityScore, &analysis, &m.PersonName, &m.CreatedAt)
	if len(analysis) > 0 {
		m.AnalysisResult = json.RawMessage(analysis)
	}
	return m, err
}

// ListMatches returns the company's matches, newest first.
func (r *Repository) ListMatches(ctx context.Context, companyID string) ([]model.Match, error) {
	q := matchSelect + `WHERE m.company_id = $1 ORDER BY m.created_at DESC`
	rows, err := r.db.Query(ctx, q, companyID)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	out := []model.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}

func (r *Repository) GetMatch(ctx context.Context, companyID, matchID string) (*model.Match, error) {
	q := matchSelect + `WHERE m.id = $1 AND m.company_id = $2`
	m, err := scanMatch(r.db.QueryRow(ctx, q, matchID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("match: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("query match: %w", err)
	}
	return &m, nil
}
