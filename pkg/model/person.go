package model

import "time"

type PersonStatus string

const (
	PersonStatusPending   PersonStatus = "pending"
	PersonStatusCompleted PersonStatus = "completed"
	PersonStatusArchived  PersonStatus = "archived"
)

// Person anchors one respondent's completed evaluation.
type Person struct {
	PersonID        string       `json:"id" db:"id"`
	CompanyID       string       `json:"company_id" db:"company_id"`
	EvaluationToken string       `json:"evaluation_token" db:"evaluation_token"`
	Name            string       `json:"name,omitempty" db:"name"`
	Email           string       `json:"email,omitempty" db:"email"`
	Status          PersonStatus `json:"status" db:"status"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
}

// Answer is one candidate answer, written only at submission.
type Answer struct {
	PersonID   string `json:"person_id" db:"person_id"`
	QuestionID string `json:"question_id" db:"question_id"`
	Text       string `json:"answer_text" db:"answer_text"`
}

type PersonListItem struct {
	Person
	MatchID            string   `json:"match_id,omitempty"`
	CompatibilityScore *float64 `json:"compatibility_score,omitempty"`
}

type AnsweredQuestion struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	AnswerText   string `json:"answer_text"`
}

type PersonDetails struct {
	Person
	Answers []AnsweredQuestion `json:"answers"`
}
