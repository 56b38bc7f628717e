package handler

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/lupa-app/lupa/internal/auth"
	"github.com/lupa-app/lupa/internal/config"
	"github.com/lupa-app/lupa/internal/question"
	"github.com/lupa-app/lupa/internal/repository"
	"github.com/lupa-app/lupa/internal/session"
	"github.com/lupa-app/lupa/internal/webhook"
	"github.com/lupa-app/lupa/pkg/model"
	"go.uber.org/zap"
)

// ClaimsKey is the gin context key the auth middleware stores claims under.
const ClaimsKey = "claims"

// Store is the row-store the handlers run on; *repository.Repository
// implements it.
type Store interface {
	ListQuestions(ctx context.Context, audience model.Audience, limit int) ([]model.Question, error)
	RecordEvaluation(ctx context.Context, person model.Person, answers []model.Answer) (*model.Person, error)

	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	GetCompanyByID(ctx context.Context, companyID string) (*model.Company, error)
	GetCompanyByUser(ctx context.Context, userID string) (*model.Company, error)
	CreateCompany(ctx context.Context, c *model.Company) error
	UpdateCompany(ctx context.Context, c *model.Company) error
	ListCompanyAnswers(ctx context.Context, companyID string) ([]model.CompanyAnswer, error)
	UpsertCompanyAnswers(ctx context.Context, companyID string, answers []model.CompanyAnswer) error

	ListPeople(ctx context.Context, companyID string) ([]model.PersonListItem, error)
	GetPersonDetails(ctx context.Context, companyID, personID string) (*model.PersonDetails, error)

	CreateMatch(ctx context.Context, m *model.Match) error
	ListMatches(ctx context.Context, companyID string) ([]model.Match, error)
	GetMatch(ctx context.Context, companyID, matchID string) (*model.Match, error)
}

var _ Store = (*repository.Repository)(nil)

// Webhook relays chat messages and contact requests.
type Webhook interface {
	Chat(ctx context.Context, sessionID, message string) (*webhook.ChatReply, error)
	SubmitContact(ctx context.Context, form webhook.ContactForm) error
}

type Handler struct {
	Logger     *zap.Logger
	Config     *config.Config
	Store      Store
	Sessions   session.Store
	Questions  *question.Provider
	TokenMaker *auth.JWTMaker
	Webhook    Webhook

	// submits holds the scopes with a submission in flight.
	submits sync.Map
}

// GetClaimsFromContext returns the claims set by the auth middleware, or nil.
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.UserClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.UserClaims)
	if !ok {
		return nil
	}
	return claims
}
