// Package evaluation drives one candidate through the question wizard:
// step navigation, answer persistence and the final submission.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/lupa-app/lupa/internal/question"
	"github.com/lupa-app/lupa/internal/session"
	"github.com/lupa-app/lupa/pkg/model"
	"go.uber.org/zap"
)

// MaxAnswerLength is the longest accepted answer, in characters, after trimming.
const MaxAnswerLength = 1000

type State int

const (
	Loading State = iota
	Answering
	Submitting
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Answering:
		return "answering"
	case Submitting:
		return "submitting"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

var (
	ErrInvalidSession   = errors.New("evaluation session is missing or does not match")
	ErrSessionExpired   = errors.New("evaluation session expired")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrUnknownQuestion  = errors.New("question is not part of this evaluation")
	ErrNotAnswering     = errors.New("evaluation is not accepting answers")
	ErrSubmitFailed     = errors.New("could not save the evaluation, please try again")
)

// ValidationError lists the questions blocking a submission, in question order.
type ValidationError struct {
	Unanswered []string
	TooLong    []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Unanswered) > 0 {
		parts = append(parts, "unanswered: "+strings.Join(e.Unanswered, ", "))
	}
	if len(e.TooLong) > 0 {
		parts = append(parts, fmt.Sprintf("longer than %d characters: %s", MaxAnswerLength, strings.Join(e.TooLong, ", ")))
	}
	return "invalid answers (" + strings.Join(parts, "; ") + ")"
}

// Sessions is the slice of session.Manager the wizard needs.
type Sessions interface {
	GetSession(ctx context.Context) (*session.Session, error)
	ValidateSession(ctx context.Context, token string) bool
	UpdateAnswers(ctx context.Context, answers map[string]string) error
	UpdateCurrentStep(ctx context.Context, step int) error
	ClearSession(ctx context.Context) error
	IsSessionExpired(ctx context.Context, timeout time.Duration) bool
}

type Questions interface {
	GetQuestions(ctx context.Context, audience model.Audience) ([]model.Question, error)
}

// Recorder durably writes a completed evaluation. Implementations must be
// idempotent on person.EvaluationToken.
type Recorder interface {
	RecordEvaluation(ctx context.Context, person model.Person, answers []model.Answer) (*model.Person, error)
}

type Deps struct {
	Sessions  Sessions
	Questions Questions
	Recorder  Recorder
	Logger    *zap.Logger

	// EnforceExpiry rejects submissions of sessions older than Timeout.
	EnforceExpiry bool
	Timeout       time.Duration
}

type Evaluation struct {
	deps Deps
	log  *zap.Logger

	mu        sync.Mutex
	token     string
	companyID string
	questions []model.Question
	answers   map[string]string
	step      int
	state     State
	err       error
	person    *model.Person
}

// Load restores the evaluation bound to token. A missing or mismatched session
// returns ErrInvalidSession and no evaluation. When questions cannot be loaded
// the evaluation is returned in the Failed state along with the error.
func Load(ctx context.Context, deps Deps, token string) (*Evaluation, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	e := &Evaluation{deps: deps, log: log, token: token, state: Loading}

	if !deps.Sessions.ValidateSession(ctx, token) {
		return nil, ErrInvalidSession
	}
	s, err := deps.Sessions.GetSession(ctx)
	if err != nil {
		if session.IsNoSession(err) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	e.companyID = s.CompanyID

	qs, err := deps.Questions.GetQuestions(ctx, model.AudiencePerson)
	if err == nil && len(qs) == 0 {
		err = fmt.Errorf("%w: no person questions", question.ErrDataUnavailable)
	}
	if err != nil {
		e.state = Failed
		e.err = err
		return e, err
	}
	e.questions = qs

	e.answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		e.answers[k] = v
	}
	e.step = clamp(s.CurrentStep, 0, len(qs)-1)
	e.state = Answering
	return e, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (e *Evaluation) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err is the error overlay of the last failed action, if any.
func (e *Evaluation) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Evaluation) Token() string     { return e.token }
func (e *Evaluation) CompanyID() string { return e.companyID }

func (e *Evaluation) Questions() []model.Question {
	out := make([]model.Question, len(e.questions))
	copy(out, e.questions)
	return out
}

func (e *Evaluation) Total() int { return len(e.questions) }

func (e *Evaluation) Step() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step
}

// Answer returns the stored answer for a question.
func (e *Evaluation) Answer(questionID string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.answers[questionID]
}

// SetAnswer overwrites the answer for questionID and persists the full map.
func (e *Evaluation) SetAnswer(ctx context.Context, questionID, text string) error {
	e.mu.Lock()
	if e.state != Answering {
		e.mu.Unlock()
		return ErrNotAnswering
	}
	if !e.hasQuestion(questionID) {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	e.answers[questionID] = text
	snapshot := make(map[string]string, len(e.answers))
	for k, v := range e.answers {
		snapshot[k] = v
	}
	e.mu.Unlock()

	if err := e.deps.Sessions.UpdateAnswers(ctx, snapshot); err != nil {
		return e.persistErr("save answers", err)
	}
	return nil
}

func (e *Evaluation) hasQuestion(id string) bool {
	for _, q := range e.questions {
		if q.QID == id {
			return true
		}
	}
	return false
}

// NextStep advances one step, saturating at the last question. It does not
// check CanProceed.
func (e *Evaluation) NextStep(ctx context.Context) error {
	return e.moveStep(ctx, 1)
}

// PreviousStep goes back one step, saturating at the first question.
func (e *Evaluation) PreviousStep(ctx context.Context) error {
	return e.moveStep(ctx, -1)
}

func (e *Evaluation) moveStep(ctx context.Context, delta int) error {
	e.mu.Lock()
	if e.state != Answering {
		e.mu.Unlock()
		return ErrNotAnswering
	}
	next := clamp(e.step+delta, 0, len(e.questions)-1)
	if next == e.step {
		e.mu.Unlock()
		return nil
	}
	e.step = next
	e.mu.Unlock()

	if err := e.deps.Sessions.UpdateCurrentStep(ctx, next); err != nil {
		return e.persistErr("save step", err)
	}
	return nil
}

func (e *Evaluation) persistErr(op string, err error) error {
	if session.IsNoSession(err) {
		return ErrInvalidSession
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CanProceed reports whether the current question has a non-blank answer.
func (e *Evaluation) CanProceed() bool {
	q, ok := e.CurrentQuestion()
	if !ok {
		return false
	}
	return strings.TrimSpace(e.Answer(q.QID)) != ""
}

// Progress is the display percentage of the current step.
func (e *Evaluation) Progress() float64 {
	n := len(e.questions)
	if n == 0 {
		return 0
	}
	return float64(e.Step()+1) / float64(n) * 100
}

func (e *Evaluation) CurrentQuestion() (model.Question, bool) {
	step := e.Step()
	if step < 0 || step >= len(e.questions) {
		return model.Question{}, false
	}
	return e.questions[step], true
}

// CurrentAnswer repopulates the input of the current step.
func (e *Evaluation) CurrentAnswer() string {
	q, ok := e.CurrentQuestion()
	if !ok {
		return ""
	}
	return e.Answer(q.QID)
}

func (e *Evaluation) IsLastStep() bool {
	return len(e.questions) > 0 && e.Step() == len(e.questions)-1
}

// Validate checks every question has a trimmed answer of 1..MaxAnswerLength
// characters. It returns nil or a *ValidationError.
func (e *Evaluation) Validate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateLocked()
}

func (e *Evaluation) validateLocked() error {
	var verr ValidationError
	for _, q := range e.questions {
		text := strings.TrimSpace(e.answers[q.QID])
		switch {
		case text == "":
			verr.Unanswered = append(verr.Unanswered, q.QID)
		case utf8.RuneCountInString(text) > MaxAnswerLength:
			verr.TooLong = append(verr.TooLong, q.QID)
		}
	}
	if len(verr.Unanswered) == 0 && len(verr.TooLong) == 0 {
		return nil
	}
	return &verr
}

// Submit validates, records the person with one answer per question and clears
// the session. On any failure the answers stay in place and Submit may be
// called again; the recorder makes a retry after a partial failure safe.
func (e *Evaluation) Submit(ctx context.Context) (*model.Person, error) {
	e.mu.Lock()
	switch e.state {
	case Submitting:
		e.mu.Unlock()
		return nil, ErrSubmitInProgress
	case Completed:
		p := e.person
		e.mu.Unlock()
		return p, nil
	case Answering:
	default:
		e.mu.Unlock()
		return nil, ErrNotAnswering
	}
	if err := e.validateLocked(); err != nil {
		e.err = err
		e.mu.Unlock()
		return nil, err
	}
	e.state = Submitting
	e.err = nil
	person := model.Person{
		EvaluationToken: e.token,
		Status:          model.PersonStatusCompleted,
	}
	answers := make([]model.Answer, 0, len(e.questions))
	for _, q := range e.questions {
		answers = append(answers, model.Answer{
			QuestionID: q.QID,
			Text:       strings.TrimSpace(e.answers[q.QID]),
		})
	}
	e.mu.Unlock()

	s, err := e.deps.Sessions.GetSession(ctx)
	if err != nil || s.Token != e.token {
		if err != nil && !session.IsNoSession(err) {
			return nil, e.failSubmit(fmt.Errorf("load session: %w", err))
		}
		return nil, e.failSubmit(ErrInvalidSession)
	}
	if e.deps.EnforceExpiry && e.deps.Sessions.IsSessionExpired(ctx, e.deps.Timeout) {
		return nil, e.failSubmit(ErrSessionExpired)
	}
	person.CompanyID = s.CompanyID

	rec, err := e.deps.Recorder.RecordEvaluation(ctx, person, answers)
	if err != nil {
		e.log.Error("record evaluation failed", zap.String("company_id", person.CompanyID), zap.Error(err))
		return nil, e.failSubmit(fmt.Errorf("%w: %w", ErrSubmitFailed, err))
	}

	if err := e.deps.Sessions.ClearSession(ctx); err != nil {
		// the rows are written; a leftover session only replays an idempotent submit
		e.log.Warn("clear session after submit failed", zap.String("person_id", rec.PersonID), zap.Error(err))
	}

	e.mu.Lock()
	e.state = Completed
	e.person = rec
	e.mu.Unlock()
	return rec, nil
}

func (e *Evaluation) failSubmit(err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Answering
	e.err = err
	return err
}

// Submitting reports whether a submission is in flight.
func (e *Evaluation) Submitting() bool {
	return e.State() == Submitting
}
