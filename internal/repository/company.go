package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lupa-app/lupa/pkg/model"
)

const companyColumns = `id, user_id, name, COALESCE(description, ''), COALESCE(industry, ''), COALESCE(size, ''), COALESCE(website, ''), created_at, updated_at`

func scanCompany(row pgx.Row) (*model.Company, error) {
	var c model.Company
	err := row.Scan(&c.CompanyID, &c.UserID, &c.Name, &c.Description, &c.Industry, &c.Size, &c.Website, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}
	return &c, nil
}

// GetCompanyByID is used by the public evaluation entry point.
func (r *Repository) GetCompanyByID(ctx context.Context, companyID string) (*model.Company, error) {
	q := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(r.db.QueryRow(ctx, q, companyID))
}

func (r *Repository) GetCompanyByUser(ctx context.Context, userID string) (*model.Company, error) {
	q := `SELECT ` + companyColumns + ` FROM companies WHERE user_id = $1`
	return scanCompany(r.db.QueryRow(ctx, q, userID))
}

// CreateCompany creates the single company owned by c.UserID.
func (r *Repository) CreateCompany(ctx context.Context, c *model.Company) error {
	const q = `
INSERT INTO companies (user_id, name, description, industry, size, website)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at
`
	row := r.db.QueryRow(ctx, q, c.UserID, c.Name, c.Description, c.Industry, c.Size, c.Website)
	if err := row.Scan(&c.CompanyID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company for user %s: %w", c.UserID, ErrConflict)
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

// UpdateCompany rewrites the profile of the company owned by c.UserID.
func (r *Repository) UpdateCompany(ctx context.Context, c *model.Company) error {
	const q = `
UPDATE companies
SET name = $2, description = $3, industry = $4, size = $5, website = $6, updated_at = now()
WHERE user_id = $1
RETURNING id, created_at, updated_at
`
	row := r.db.QueryRow(ctx, q, c.UserID, c.Name, c.Description, c.Industry, c.Size, c.Website)
	if err := row.Scan(&c.CompanyID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("company: %w", ErrNotFound)
		}
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// ListCompanyAnswers returns the company's own answers keyed by question.
func (r *Repository) ListCompanyAnswers(ctx context.Context, companyID string) ([]model.CompanyAnswer, error) {
	const q = `
SELECT ca.question_id, ca.answer_value
FROM company_answers ca
JOIN questions q ON q.id = ca.question_id
WHERE ca.company_id = $1
ORDER BY q.order_index ASC
`
	rows, err := r.db.Query(ctx, q, companyID)
	if err != nil {
		return nil, fmt.Errorf("query company answers: %w", err)
	}
	defer rows.Close()

	out := []model.CompanyAnswer{}
	for rows.Next() {
		var a model.CompanyAnswer
		if err := rows.Scan(&a.QuestionID, &a.AnswerValue); err != nil {
			return nil, fmt.Errorf("scan company answer: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate company answers: %w", err)
	}
	return out, nil
}

// UpsertCompanyAnswers writes all answers in one statement keyed by
// (company_id, question_id); existing answers not in the list are kept.
func (r *Repository) UpsertCompanyAnswers(ctx context.Context, companyID string, answers []model.CompanyAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	args := make([]any, 0, len(answers)*3)
	for _, a := range answers {
		args = append(args, companyID, a.QuestionID, a.AnswerValue)
	}
	q := `
INSERT INTO company_answers (company_id, question_id, answer_value)
VALUES ` + valuesClause(len(answers), 3) + `
ON CONFLICT (company_id, question_id)
DO UPDATE SET answer_value = EXCLUDED.answer_value, updated_at = now()
`
	if _, err := r.db.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("upsert company answers: %w", err)
	}
	return nil
}
