package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lupa-app/lupa/pkg/model"
)

// RecordEvaluation writes the person row and every answer in one transaction.
// Replaying the same evaluation token returns the existing person and adds
// only answers that are not stored yet.
func (r *Repository) RecordEvaluation(ctx context.Context, person model.Person, answers []model.Answer) (_ *model.Person, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin record evaluation: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const qPerson = `
INSERT INTO people (company_id, evaluation_token, name, email, status)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
ON CONFLICT (evaluation_token) DO UPDATE SET status = EXCLUDED.status
RETURNING id, created_at
`
	row := tx.QueryRow(ctx, qPerson, person.CompanyID, person.EvaluationToken, person.Name, person.Email, person.Status)
	if err = row.Scan(&person.PersonID, &person.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}

	if len(answers) > 0 {
		args := make([]any, 0, len(answers)*3)
		for _, a := range answers {
			args = append(args, person.PersonID, a.QuestionID, a.Text)
		}
		qAnswers := `
INSERT INTO answers (person_id, question_id, answer_text)
VALUES ` + valuesClause(len(answers), 3) + `
ON CONFLICT (person_id, question_id) DO NOTHING
`
		if _, err = tx.Exec(ctx, qAnswers, args...); err != nil {
			return nil, fmt.Errorf("insert answers: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit record evaluation: %w", err)
	}
	return &person, nil
}

// ListPeople returns the company's respondents, newest first, with their
// latest match score when one exists.
func (r *Repository) ListPeople(ctx context.Context, companyID string) ([]model.PersonListItem, error) {
	const q = `
SELECT p.id, p.company_id, p.evaluation_token, COALESCE(p.name, ''), COALESCE(p.email, ''), p.status, p.created_at,
	m.id, m.compatibility_score
FROM people p
LEFT JOIN LATERAL (
	SELECT id, compatibility_score FROM matches
	WHERE matches.person_id = p.id
	ORDER BY created_at DESC
	LIMIT 1
) m ON true
WHERE p.company_id = $1
ORDER BY p.created_at DESC
`
	rows, err := r.db.Query(ctx, q, companyID)
	if err != nil {
		return nil, fmt.Errorf("query people: %w", err)
	}
	defer rows.Close()

	out := []model.PersonListItem{}
	for rows.Next() {
		var (
			it      model.PersonListItem
			matchID pgtype.Text
			score   pgtype.Float8
		)
		err := rows.Scan(&it.PersonID, &it.CompanyID, &it.EvaluationToken, &it.Name, &it.Email, &it.Status, &it.CreatedAt,
			&matchID, &score)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		if matchID.Valid {
			it.MatchID = matchID.String
		}
		if score.Valid {
			s := score.Float64
			it.CompatibilityScore = &s
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}
	return out, nil
}

// GetPersonDetails returns a person of the company with answers in question
// order. A person of another company is ErrNotFound.
func (r *Repository) GetPersonDetails(ctx context.Context, companyID, personID string) (*model.PersonDetails, error) {
	const qPerson = `
SELECT id, company_id, evaluation_token, COALESCE(name, ''), COALESCE(email, ''), status, created_at
FROM people
WHERE id = $1 AND company_id = $2
`
	var d model.PersonDetails
	err := r.db.QueryRow(ctx, qPerson, personID, companyID).Scan(
		&d.PersonID, &d.CompanyID, &d.EvaluationToken, &d.Name, &d.Email, &d.Status, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("person: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("query person: %w", err)
	}

	const qAnswers = `
SELECT a.question_id, q.question_text, a.answer_text
FROM answers a
JOIN questions q ON q.id = a.question_id
WHERE a.person_id = $1
ORDER BY q.order_index ASC
`
	rows, err := r.db.Query(ctx, qAnswers, personID)
	if err != nil {
		return nil, fmt.Errorf("query person answers: %w", err)
	}
	defer rows.Close()

	d.Answers = []model.AnsweredQuestion{}
	for rows.Next() {
		var a model.AnsweredQuestion
		if err := rows.Scan(&a.QuestionID, &a.QuestionText, &a.AnswerText); err != nil {
			return nil, fmt.Errorf("scan person answer: %w", err)
		}
		d.Answers = append(d.Answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate person answers: %w", err)
	}
	return &d, nil
}
