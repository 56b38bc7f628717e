package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lupa-app/lupa/internal/evaluation"
	"github.com/lupa-app/lupa/internal/logger"
	"github.com/lupa-app/lupa/internal/metrics"
	"github.com/lupa-app/lupa/internal/question"
	"github.com/lupa-app/lupa/internal/repository"
	"github.com/lupa-app/lupa/internal/session"
	"github.com/lupa-app/lupa/pkg/response"
	"go.uber.org/zap"
)

const (
	homePath   = "/"
	thanksPath = "/p/obrigado"
)

type saveAnswerReq struct {
	Answer *string `json:"answer" binding:"required,max=10000"`
}

// scope returns the tab scope from the cookie, or "" when there is none.
func (h *Handler) scope(c *gin.Context) string {
	v, err := c.Cookie(h.Config.Session.CookieName)
	if err != nil {
		return ""
	}
	return v
}

func (h *Handler) setScope(c *gin.Context, scope string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Config.Session.CookieName, scope, int(h.Config.Session.TTL.Seconds()), "/", "", h.Config.Session.CookieSecure, true)
}

// redirectHome sends the candidate back to the entry point. Reads use 302,
// actions use 303 so the browser follows with a GET.
func redirectHome(c *gin.Context) {
	status := http.StatusFound
	if c.Request.Method != http.MethodGet {
		status = http.StatusSeeOther
	}
	c.Redirect(status, homePath)
	c.Abort()
}

func (h *Handler) manager(c *gin.Context) *session.Manager {
	return session.NewManager(h.Sessions, h.scope(c))
}

func (h *Handler) evaluationDeps(m *session.Manager) evaluation.Deps {
	return evaluation.Deps{
		Sessions:      m,
		Questions:     h.Questions,
		Recorder:      h.Store,
		Logger:        h.Logger,
		EnforceExpiry: h.Config.Session.EnforceExpiry,
		Timeout:       h.Config.Session.Timeout,
	}
}

// StartEvaluation handles the shareable company link: it mints a session in
// the caller's tab scope and sends the candidate to the wizard.
func (h *Handler) StartEvaluation(c *gin.Context) {
	companyID := c.Param("companyId")
	ctx := c.Request.Context()

	if _, err := uuid.Parse(companyID); err != nil {
		response.NotFound(c, "evaluation link not found")
		return
	}
	if _, err := h.Store.GetCompanyByID(ctx, companyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "evaluation link not found")
			return
		}
		h.Logger.Sugar().Errorw("start evaluation: load company failed", "company_id", companyID, "err", err)
		response.InternalError(c, "")
		return
	}

	scope := h.scope(c)
	if scope == "" {
		scope = uuid.NewString()
	}
	h.setScope(c, scope)

	token, err := session.NewManager(h.Sessions, scope).CreateSession(ctx, companyID)
	if err != nil {
		h.Logger.Sugar().Errorw("start evaluation: create session failed", "company_id", companyID, "err", err)
		response.ServiceUnavailable(c, "could not start the evaluation, please try again")
		return
	}
	metrics.SessionsCreated.Inc()
	h.Logger.Info("evaluation started", logger.EvaluationFields(companyID, token)...)

	c.Redirect(http.StatusFound, "/p/"+token)
}

// Thanks is the landing view after a successful submission.
func (h *Handler) Thanks(c *gin.Context) {
	response.OK(c, gin.H{"message": "Obrigado! Suas respostas foram enviadas."})
}

// loadEvaluation restores the wizard for the :token path parameter. It writes
// the response and returns nil when the request cannot go on.
func (h *Handler) loadEvaluation(c *gin.Context) *evaluation.Evaluation {
	token := c.Param("token")
	if !session.ValidToken(token) {
		redirectHome(c)
		return nil
	}

	e, err := evaluation.Load(c.Request.Context(), h.evaluationDeps(h.manager(c)), token)
	switch {
	case err == nil:
		return e
	case errors.Is(err, evaluation.ErrInvalidSession):
		redirectHome(c)
	case errors.Is(err, question.ErrDataUnavailable):
		h.Logger.Sugar().Warnw("evaluation questions unavailable", "err", err)
		response.ServiceUnavailable(c, "no questions available right now, please try again")
	default:
		h.Logger.Sugar().Errorw("load evaluation failed", "err", err)
		response.InternalError(c, "")
	}
	return nil
}

// GetEvaluation renders the current step.
func (h *Handler) GetEvaluation(c *gin.Context) {
	e := h.loadEvaluation(c)
	if e == nil {
		return
	}
	response.OK(c, e.View())
}

// SaveAnswer stores the answer of one question in the session.
func (h *Handler) SaveAnswer(c *gin.Context) {
	var req saveAnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "answer is required")
		return
	}
	e := h.loadEvaluation(c)
	if e == nil {
		return
	}

	err := e.SetAnswer(c.Request.Context(), c.Param("questionId"), *req.Answer)
	if err != nil {
		h.evaluationError(c, "save answer", err)
		return
	}
	response.OK(c, e.View())
}

// NextStep moves forward once the current question is answered.
func (h *Handler) NextStep(c *gin.Context) {
	e := h.loadEvaluation(c)
	if e == nil {
		return
	}
	if !e.CanProceed() {
		q, _ := e.CurrentQuestion()
		response.ValidationError(c, "answer the current question before continuing", q.QID)
		return
	}
	if err := e.NextStep(c.Request.Context()); err != nil {
		h.evaluationError(c, "next step", err)
		return
	}
	response.OK(c, e.View())
}

func (h *Handler) PreviousStep(c *gin.Context) {
	e := h.loadEvaluation(c)
	if e == nil {
		return
	}
	if err := e.PreviousStep(c.Request.Context()); err != nil {
		h.evaluationError(c, "previous step", err)
		return
	}
	response.OK(c, e.View())
}

// SubmitEvaluation validates and records the evaluation, then clears the session.
func (h *Handler) SubmitEvaluation(c *gin.Context) {
	scope := h.scope(c)
	if scope != "" {
		if _, busy := h.submits.LoadOrStore(scope, struct{}{}); busy {
			response.Conflict(c, evaluation.ErrSubmitInProgress.Error())
			return
		}
		defer h.submits.Delete(scope)
	}

	e := h.loadEvaluation(c)
	if e == nil {
		return
	}
	ctx := c.Request.Context()
	fields := logger.EvaluationFields(e.CompanyID(), e.Token())

	person, err := e.Submit(ctx)
	if err != nil {
		var verr *evaluation.ValidationError
		switch {
		case errors.As(err, &verr):
			metrics.EvaluationsSubmitted.WithLabelValues(metrics.ResultValidation).Inc()
			details := append(append([]string{}, verr.Unanswered...), verr.TooLong...)
			response.ValidationError(c, verr.Error(), details...)
		case errors.Is(err, evaluation.ErrInvalidSession), errors.Is(err, evaluation.ErrSessionExpired):
			metrics.EvaluationsSubmitted.WithLabelValues(metrics.ResultSession).Inc()
			h.Logger.Warn("submit rejected: "+err.Error(), fields...)
			if errors.Is(err, evaluation.ErrSessionExpired) {
				_ = h.manager(c).ClearSession(ctx)
			}
			redirectHome(c)
		case errors.Is(err, evaluation.ErrSubmitInProgress):
			response.Conflict(c, err.Error())
		default:
			metrics.EvaluationsSubmitted.WithLabelValues(metrics.ResultError).Inc()
			h.Logger.Error("submit failed", append(fields, zap.Error(err))...)
			response.InternalError(c, evaluation.ErrSubmitFailed.Error())
		}
		return
	}

	metrics.EvaluationsSubmitted.WithLabelValues(metrics.ResultSuccess).Inc()
	h.Logger.Info("evaluation submitted", append(fields, zap.String("person_id", person.PersonID))...)
	response.OK(c, gin.H{"redirect": thanksPath, "person_id": person.PersonID})
}

// AbandonEvaluation clears the session on purpose (restart or leave).
func (h *Handler) AbandonEvaluation(c *gin.Context) {
	m := h.manager(c)
	ctx := c.Request.Context()
	if m.ValidateSession(ctx, c.Param("token")) {
		if err := m.ClearSession(ctx); err != nil {
			h.Logger.Sugar().Errorw("abandon evaluation: clear session failed", "err", err)
			response.ServiceUnavailable(c, "could not reset the evaluation, please try again")
			return
		}
	}
	redirectHome(c)
}

func (h *Handler) evaluationError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, evaluation.ErrInvalidSession):
		redirectHome(c)
	case errors.Is(err, evaluation.ErrUnknownQuestion):
		response.NotFound(c, "question not found")
	case errors.Is(err, evaluation.ErrNotAnswering):
		response.Conflict(c, err.Error())
	default:
		h.Logger.Sugar().Errorw(op+" failed", "err", err)
		response.ServiceUnavailable(c, "could not save your progress, please try again")
	}
}
