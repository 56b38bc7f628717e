package model

import (
	"encoding/json"
	"time"
)

type Match struct {
	MatchID            string          `json:"id" db:"id"`
	PersonID           string          `json:"person_id" db:"person_id"`
	CompanyID          string          `json:"company_id" db:"company_id"`
	CompatibilityScore float64         `json:"compatibility_score" db:"compatibility_score"`
	AnalysisResult     json.RawMessage `json:"analysis_result,omitempty" db:"analysis_result"`
	PersonName         string          `json:"person_name,omitempty"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
}

type CreateMatchReq struct {
	PersonID           string          `json:"person_id" binding:"required,uuid"`
	CompatibilityScore float64         `json:"compatibility_score" binding:"gte=0,lte=100"`
	AnalysisResult     json.RawMessage `json:"analysis_result"`
}
