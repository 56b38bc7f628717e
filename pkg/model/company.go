package model

import "time"

type Company struct {
	CompanyID   string    `json:"company_id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Industry    string    `json:"industry" db:"industry"`
	Size        string    `json:"size" db:"size"`
	Website     string    `json:"website" db:"website"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CompanyReq struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Industry    string `json:"industry" binding:"max=100"`
	Size        string `json:"size" binding:"max=50"`
	Website     string `json:"website" binding:"omitempty,url"`
}

// CompanyAnswer is a company's own answer to a company-audience question.
type CompanyAnswer struct {
	QuestionID  string `json:"question_id" binding:"required"`
	AnswerValue string `json:"answer_value" binding:"required,max=1000"`
}

type UpsertCompanyAnswersReq struct {
	Answers []CompanyAnswer `json:"answers" binding:"required,min=1,dive"`
}

type EvaluationLinkRes struct {
	CompanyID string `json:"company_id"`
	URL       string `json:"url"`
}
