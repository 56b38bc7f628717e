package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lupa-app/lupa/internal/auth"
	"github.com/lupa-app/lupa/internal/config"
	"github.com/lupa-app/lupa/internal/question"
	"github.com/lupa-app/lupa/internal/repository"
	"github.com/lupa-app/lupa/internal/session"
	"github.com/lupa-app/lupa/internal/webhook"
	"github.com/lupa-app/lupa/pkg/model"
	"github.com/lupa-app/lupa/pkg/response"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-with-at-least-32-chars"

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu             sync.Mutex
	questions      map[model.Audience][]model.Question
	users          map[string]*model.User
	companies      map[string]*model.Company
	people         []model.Person
	answers        []model.Answer
	companyAnswers map[string][]model.CompanyAnswer
	matches        []model.Match
	recordErr      error
	recordCalls    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		questions:      map[model.Audience][]model.Question{},
		users:          map[string]*model.User{},
		companies:      map[string]*model.Company{},
		companyAnswers: map[string][]model.CompanyAnswer{},
	}
}

func (s *fakeStore) ListQuestions(_ context.Context, audience model.Audience, limit int) ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	qs := s.questions[audience]
	if len(qs) > limit {
		qs = qs[:limit]
	}
	return append([]model.Question(nil), qs...), nil
}

func (s *fakeStore) RecordEvaluation(_ context.Context, p model.Person, answers []model.Answer) (*model.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordCalls++
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	for _, existing := range s.people {
		if existing.EvaluationToken == p.EvaluationToken {
			return &existing, nil
		}
	}
	p.PersonID = uuid.NewString()
	p.CreatedAt = time.Now()
	s.people = append(s.people, p)
	for _, a := range answers {
		a.PersonID = p.PersonID
		s.answers = append(s.answers, a)
	}
	return &p, nil
}

func (s *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return repository.ErrConflict
		}
	}
	u.UserID = uuid.NewString()
	cp := *u
	s.users[u.UserID] = &cp
	return nil
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) GetCompanyByID(_ context.Context, companyID string) (*model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[companyID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) GetCompanyByUser(_ context.Context, userID string) (*model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.companies {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) CreateCompany(_ context.Context, c *model.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.companies {
		if existing.UserID == c.UserID {
			return repository.ErrConflict
		}
	}
	c.CompanyID = uuid.NewString()
	cp := *c
	s.companies[c.CompanyID] = &cp
	return nil
}

func (s *fakeStore) UpdateCompany(_ context.Context, c *model.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.companies {
		if existing.UserID == c.UserID {
			c.CompanyID = id
			cp := *c
			s.companies[id] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeStore) ListCompanyAnswers(_ context.Context, companyID string) ([]model.CompanyAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CompanyAnswer{}, s.companyAnswers[companyID]...), nil
}

func (s *fakeStore) UpsertCompanyAnswers(_ context.Context, companyID string, answers []model.CompanyAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.companyAnswers[companyID]
	for _, a := range answers {
		replaced := false
		for i := range current {
			if current[i].QuestionID == a.QuestionID {
				current[i] = a
				replaced = true
			}
		}
		if !replaced {
			current = append(current, a)
		}
	}
	s.companyAnswers[companyID] = current
	return nil
}

func (s *fakeStore) ListPeople(_ context.Context, companyID string) ([]model.PersonListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.PersonListItem{}
	for _, p := range s.people {
		if p.CompanyID == companyID {
			out = append(out, model.PersonListItem{Person: p})
		}
	}
	return out, nil
}

func (s *fakeStore) GetPersonDetails(_ context.Context, companyID, personID string) (*model.PersonDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.people {
		if p.PersonID != personID || p.CompanyID != companyID {
			continue
		}
		d := &model.PersonDetails{Person: p, Answers: []model.AnsweredQuestion{}}
		for _, a := range s.answers {
			if a.PersonID == personID {
				d.Answers = append(d.Answers, model.AnsweredQuestion{QuestionID: a.QuestionID, AnswerText: a.Text})
			}
		}
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) CreateMatch(_ context.Context, m *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.people {
		if p.PersonID == m.PersonID && p.CompanyID == m.CompanyID {
			m.MatchID = uuid.NewString()
			m.CreatedAt = time.Now()
			s.matches = append([]model.Match{*m}, s.matches...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeStore) ListMatches(_ context.Context, companyID string) ([]model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Match{}
	for _, m := range s.matches {
		if m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) GetMatch(_ context.Context, companyID, matchID string) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.MatchID == matchID && m.CompanyID == companyID {
			cp := m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeWebhook struct {
	reply    *webhook.ChatReply
	err      error
	sessions []string
	messages []string
	contacts []webhook.ContactForm
}

func (f *fakeWebhook) Chat(_ context.Context, sessionID, message string) (*webhook.ChatReply, error) {
	f.sessions = append(f.sessions, sessionID)
	f.messages = append(f.messages, message)
	return f.reply, f.err
}

func (f *fakeWebhook) SubmitContact(_ context.Context, form webhook.ContactForm) error {
	f.contacts = append(f.contacts, form)
	return f.err
}

type testEnv struct {
	h        *Handler
	store    *fakeStore
	sessions *session.MemoryStore
	hooks    *fakeWebhook
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	sessions := session.NewMemoryStore()
	hooks := &fakeWebhook{}
	cfg := &config.Config{
		Env:           "test",
		PublicBaseURL: "https://lupa.example/",
		JWT:           config.JWTConfig{Secret: testSecret, AccessTokenTTL: time.Hour},
		Session: config.SessionConfig{
			CookieName: "lupa_sid",
			TTL:        24 * time.Hour,
			Timeout:    time.Hour,
		},
	}
	h := &Handler{
		Logger:     zap.NewNop(),
		Config:     cfg,
		Store:      store,
		Sessions:   sessions,
		Questions:  question.NewProvider(store, question.DefaultLimit),
		TokenMaker: auth.NewJWTMaker(testSecret),
		Webhook:    hooks,
	}

	r := gin.New()
	r.GET("/avaliacao/:companyId", h.StartEvaluation)
	r.GET("/p/obrigado", h.Thanks)
	r.GET("/p/:token", h.GetEvaluation)
	r.DELETE("/p/:token", h.AbandonEvaluation)
	r.PUT("/p/:token/answers/:questionId", h.SaveAnswer)
	r.POST("/p/:token/next", h.NextStep)
	r.POST("/p/:token/previous", h.PreviousStep)
	r.POST("/p/:token/submit", h.SubmitEvaluation)

	v1 := r.Group("/api/v1")
	v1.POST("/signup", h.SignUp)
	v1.POST("/login", h.Login)
	v1.POST("/chat", h.Chat)
	v1.POST("/contact", h.Contact)

	protected := v1.Group("/", testAuth(h))
	protected.GET("/me", h.Me)
	protected.GET("/company", h.GetCompany)
	protected.POST("/company", h.CreateCompany)
	protected.PUT("/company", h.UpdateCompany)
	protected.GET("/company/questions", h.ListCompanyQuestions)
	protected.GET("/company/answers", h.GetCompanyAnswers)
	protected.PUT("/company/answers", h.UpsertCompanyAnswers)
	protected.GET("/company/evaluation-link", h.EvaluationLink)
	protected.GET("/people", h.ListPeople)
	protected.GET("/people/:id", h.GetPerson)
	protected.POST("/matches", h.CreateMatch)
	protected.GET("/matches", h.ListMatches)
	protected.GET("/matches/:id", h.GetMatch)
	protected.GET("/dashboard", h.Dashboard)

	return &testEnv{h: h, store: store, sessions: sessions, hooks: hooks, router: r}
}

// testAuth verifies the bearer token the way the API middleware does, minus
// the header parsing.
func testAuth(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "
		v := c.GetHeader("Authorization")
		if len(v) <= len(prefix) {
			response.Unauthorized(c, "")
			return
		}
		claims, err := h.TokenMaker.VerifyToken(v[len(prefix):])
		if err != nil {
			response.Unauthorized(c, "")
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

type request struct {
	method  string
	path    string
	body    any
	cookie  *http.Cookie
	bearer  string
	headers map[string]string
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if req.body != nil {
		switch b := req.body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	r := httptest.NewRequest(req.method, req.path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if req.cookie != nil {
		r.AddCookie(req.cookie)
	}
	if req.bearer != "" {
		r.Header.Set("Authorization", "Bearer "+req.bearer)
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func (e *testEnv) seedQuestions(audience model.Audience, n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			QID:        fmt.Sprintf("%s-q%d", audience, i+1),
			Text:       fmt.Sprintf("Pergunta %d", i+1),
			Audience:   audience,
			Format:     model.AnswerFormatText,
			OrderIndex: i + 1,
		}
	}
	e.store.mu.Lock()
	e.store.questions[audience] = qs
	e.store.mu.Unlock()
	return qs
}

func (e *testEnv) seedCompany(name string) *model.Company {
	c := &model.Company{UserID: uuid.NewString(), Name: name}
	if err := e.store.CreateCompany(context.Background(), c); err != nil {
		panic(err)
	}
	return c
}

// tokenFor registers a user and returns an access token for it.
func (e *testEnv) tokenFor(t *testing.T, email string) (string, string) {
	t.Helper()
	u := &model.User{Email: email, Role: model.UserRoleCompany}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	token, _, err := e.h.TokenMaker.CreateToken(u.UserID, u.Email, u.Role, time.Hour)
	require.NoError(t, err)
	return token, u.UserID
}

var errBoom = errors.New("boom")
