package model

import "time"

// Audience is the question_type column: which side of a match answers the question.
type Audience string

const (
	AudiencePerson  Audience = "person"
	AudienceCompany Audience = "company"
	AudienceCustom  Audience = "custom"
)

// AnswerFormat is how a question is answered. The candidate wizard only renders text.
type AnswerFormat string

const (
	AnswerFormatText           AnswerFormat = "text"
	AnswerFormatMultipleChoice AnswerFormat = "multiple_choice"
	AnswerFormatSlider         AnswerFormat = "slider"
	AnswerFormatCheckbox       AnswerFormat = "checkbox"
)

type Question struct {
	QID         string       `json:"id" db:"id"`
	Text        string       `json:"text" db:"question_text"`
	Audience    Audience     `json:"audience" db:"question_type"`
	Format      AnswerFormat `json:"format" db:"input_type"`
	Placeholder string       `json:"placeholder,omitempty" db:"placeholder"`
	OrderIndex  int          `json:"order_index" db:"order_index"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}
