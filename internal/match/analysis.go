// Package match validates stored compatibility analyses and aggregates them
// for the company dashboard.
package match

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

var ErrInvalidAnalysis = errors.New("invalid analysis result")

type Alignment string

const (
	AlignmentHigh   Alignment = "high"
	AlignmentMedium Alignment = "medium"
	AlignmentLow    Alignment = "low"
)

type Trait struct {
	Name      string    `json:"name"`
	Person    float64   `json:"person"`
	Company   float64   `json:"company"`
	Alignment Alignment `json:"alignment"`
}

// Analysis is the analysis_result document attached to a match.
type Analysis struct {
	MatchScore      float64  `json:"matchScore"`
	Traits          []Trait  `json:"traits"`
	AlignmentPoints []string `json:"alignmentPoints,omitempty"`
	FrictionPoints  []string `json:"frictionPoints,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

var analysisSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["traits"],
	"properties": {
		"matchScore": {"type": "number", "minimum": 0, "maximum": 100},
		"traits": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "alignment"],
				"properties": {
					"name":      {"type": "string", "minLength": 1},
					"person":    {"type": "number"},
					"company":   {"type": "number"},
					"alignment": {"enum": ["high", "medium", "low"]}
				}
			}
		},
		"alignmentPoints": {"type": "array", "items": {"type": "string"}},
		"frictionPoints":  {"type": "array", "items": {"type": "string"}},
		"recommendations": {"type": "array", "items": {"type": "string"}}
	}
}`)

// ParseAnalysis validates raw against the analysis schema. An empty or null
// document is allowed and yields nil.
func ParseAnalysis(raw json.RawMessage) (*Analysis, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	result, err := gojsonschema.Validate(analysisSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, &ValidationError{Details: errs}
	}

	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	return &a, nil
}

// ValidationError carries the schema violations of an analysis document.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidAnalysis, e.Details)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidAnalysis }
