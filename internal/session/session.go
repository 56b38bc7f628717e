// Package session keeps the in-progress state of one candidate evaluation.
//
// State is scoped to a single browser tab (identified by the scope cookie) and
// lives only until the evaluation is submitted or abandoned. Nothing here is
// written to the row-store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Key names of the five values that make up a session. They are written
// together and removed together; a partial set reads as no session.
const (
	KeyEvaluationToken = "evaluation_token"
	KeyCompanyID       = "empresa_id"
	KeyStartTime       = "evaluation_start_time"
	KeyAnswers         = "evaluation_answers"
	KeyCurrentStep     = "current_step"
)

// Keys lists every session key.
var Keys = []string{KeyEvaluationToken, KeyCompanyID, KeyStartTime, KeyAnswers, KeyCurrentStep}

// DefaultTimeout is the advisory session lifetime used by IsSessionExpired.
const DefaultTimeout = 60 * time.Minute

// ErrNoSession means the scope has no complete, parsable session.
var ErrNoSession = errors.New("no evaluation session")

var tokenPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{16,}$`)

// ValidToken reports whether s has the shape of an evaluation token.
func ValidToken(s string) bool {
	return tokenPattern.MatchString(s)
}

// NewToken mints an opaque evaluation token.
func NewToken() string {
	return uuid.NewString()
}

type Session struct {
	Token       string            `json:"token"`
	CompanyID   string            `json:"company_id"`
	StartTime   time.Time         `json:"start_time"`
	Answers     map[string]string `json:"answers"`
	CurrentStep int               `json:"current_step"`
}

// Store persists sessions per scope. Implementations must treat a missing or
// unparsable key as ErrNoSession, and updates must fail with ErrNoSession
// rather than create a partial session.
type Store interface {
	Create(ctx context.Context, scope string, s *Session) error
	Get(ctx context.Context, scope string) (*Session, error)
	UpdateAnswers(ctx context.Context, scope string, answers map[string]string) error
	UpdateCurrentStep(ctx context.Context, scope string, step int) error
	Clear(ctx context.Context, scope string) error
}

func encode(s *Session) (map[string]string, error) {
	answers := s.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	return map[string]string{
		KeyEvaluationToken: s.Token,
		KeyCompanyID:       s.CompanyID,
		KeyStartTime:       s.StartTime.UTC().Format(time.RFC3339Nano),
		KeyAnswers:         string(raw),
		KeyCurrentStep:     strconv.Itoa(s.CurrentStep),
	}, nil
}

func encodeAnswers(answers map[string]string) (string, error) {
	if answers == nil {
		answers = map[string]string{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	return string(raw), nil
}

// decode rebuilds a session from its raw values; any gap is ErrNoSession.
func decode(values map[string]string) (*Session, error) {
	for _, k := range Keys {
		if v, ok := values[k]; !ok || v == "" {
			return nil, ErrNoSession
		}
	}

	start, err := time.Parse(time.RFC3339Nano, values[KeyStartTime])
	if err != nil {
		return nil, ErrNoSession
	}
	step, err := strconv.Atoi(values[KeyCurrentStep])
	if err != nil || step < 0 {
		return nil, ErrNoSession
	}
	answers := map[string]string{}
	if err := json.Unmarshal([]byte(values[KeyAnswers]), &answers); err != nil {
		return nil, ErrNoSession
	}

	return &Session{
		Token:       values[KeyEvaluationToken],
		CompanyID:   values[KeyCompanyID],
		StartTime:   start,
		Answers:     answers,
		CurrentStep: step,
	}, nil
}
