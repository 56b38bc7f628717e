package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lupa-app/lupa/pkg/model"
)

// ListQuestions returns up to limit shared questions of one audience in
// display order.
func (r *Repository) ListQuestions(ctx context.Context, audience model.Audience, limit int) ([]model.Question, error) {
	const q = `
SELECT id, question_text, question_type, input_type, COALESCE(placeholder, ''), order_index, created_at
FROM questions
WHERE question_type = $1 AND company_id IS NULL
ORDER BY order_index ASC
LIMIT $2
`
	rows, err := r.db.Query(ctx, q, audience, limit)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []model.Question
	for rows.Next() {
		var qs model.Question
		if err := rows.Scan(&qs.QID, &qs.Text, &qs.Audience, &qs.Format, &qs.Placeholder, &qs.OrderIndex, &qs.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, qs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}

// CreateQuestions seeds shared questions. A question whose audience already
// has a row at the same order_index is skipped, so seeding can be rerun.
// It returns the number of rows inserted.
func (r *Repository) CreateQuestions(ctx context.Context, questions []model.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	const q = `
INSERT INTO questions (question_text, question_type, input_type, placeholder, order_index)
SELECT $1, $2, $3, NULLIF($4, ''), $5
WHERE NOT EXISTS (
	SELECT 1 FROM questions WHERE question_type = $2 AND order_index = $5 AND company_id IS NULL
)
`
	for _, question := range questions {
		batch.Queue(q, question.Text, question.Audience, question.Format, question.Placeholder, question.OrderIndex)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for i := 0; i < len(questions); i++ {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch insert question %d: %w", i, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
