package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/lupa-app/lupa/internal/question"
	"github.com/lupa-app/lupa/internal/repository"
	"github.com/lupa-app/lupa/pkg/model"
	"github.com/lupa-app/lupa/pkg/response"
)

// currentCompany loads the company of the authenticated user. It writes the
// response and returns nil when there is none.
func (h *Handler) currentCompany(c *gin.Context) *model.Company {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return nil
	}
	company, err := h.Store.GetCompanyByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "company profile not found, create it first")
			return nil
		}
		h.Logger.Sugar().Errorw("load company failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c, "")
		return nil
	}
	return company
}

func (h *Handler) GetCompany(c *gin.Context) {
	company := h.currentCompany(c)
	if company == nil {
		return
	}
	response.OK(c, company)
}

func (h *Handler) CreateCompany(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}
	var req model.CompanyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	company := &model.Company{
		UserID:      claims.UserID,
		Name:        req.Name,
		Description: req.Description,
		Industry:    req.Industry,
		Size:        req.Size,
		Website:     req.Website,
	}
	if err := h.Store.CreateCompany(c.Request.Context(), company); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			response.Conflict(c, "company profile already exists")
			return
		}
		h.Logger.Sugar().Errorw("company create failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.Created(c, company)
}

func (h *Handler) UpdateCompany(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}
	var req model.CompanyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	company := &model.Company{
		UserID:      claims.UserID,
		Name:        req.Name,
		Description: req.Description,
		Industry:    req.Industry,
		Size:        req.Size,
		Website:     req.Website,
	}
	if err := h.Store.UpdateCompany(c.Request.Context(), company); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "company profile not found, create it first")
			return
		}
		h.Logger.Sugar().Errorw("company update failed", "user_id", claims.UserID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, company)
}

// ListCompanyQuestions returns the questions a company answers about itself.
func (h *Handler) ListCompanyQuestions(c *gin.Context) {
	qs, err := h.Questions.GetQuestions(c.Request.Context(), model.AudienceCompany)
	if err != nil {
		h.Logger.Sugar().Warnw("company questions unavailable", "err", err)
		response.ServiceUnavailable(c, "no questions available right now, please try again")
		return
	}
	response.OK(c, qs)
}

func (h *Handler) GetCompanyAnswers(c *gin.Context) {
	company := h.currentCompany(c)
	if company == nil {
		return
	}
	answers, err := h.Store.ListCompanyAnswers(c.Request.Context(), company.CompanyID)
	if err != nil {
		h.Logger.Sugar().Errorw("list company answers failed", "company_id", company.CompanyID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, answers)
}

// UpsertCompanyAnswers saves the company's answers in one statement.
func (h *Handler) UpsertCompanyAnswers(c *gin.Context) {
	company := h.currentCompany(c)
	if company == nil {
		return
	}
	var req model.UpsertCompanyAnswersReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	qs, err := h.Questions.GetQuestions(ctx, model.AudienceCompany)
	if err != nil {
		if errors.Is(err, question.ErrDataUnavailable) {
			response.ServiceUnavailable(c, "no questions available right now, please try again")
			return
		}
		response.InternalError(c, "")
		return
	}
	known := make(map[string]bool, len(qs))
	for _, q := range qs {
		known[q.QID] = true
	}
	var unknown []string
	seen := map[string]bool{}
	for _, a := range req.Answers {
		if !known[a.QuestionID] {
			unknown = append(unknown, a.QuestionID)
		}
		if seen[a.QuestionID] {
			response.ValidationError(c, fmt.Sprintf("question %s answered twice", a.QuestionID), a.QuestionID)
			return
		}
		seen[a.QuestionID] = true
	}
	if len(unknown) > 0 {
		response.ValidationError(c, "unknown company questions", unknown...)
		return
	}

	if err := h.Store.UpsertCompanyAnswers(ctx, company.CompanyID, req.Answers); err != nil {
		h.Logger.Sugar().Errorw("upsert company answers failed", "company_id", company.CompanyID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, req.Answers)
}

// EvaluationLink returns the shareable candidate link of the company.
func (h *Handler) EvaluationLink(c *gin.Context) {
	company := h.currentCompany(c)
	if company == nil {
		return
	}
	response.OK(c, model.EvaluationLinkRes{
		CompanyID: company.CompanyID,
		URL:       h.Config.EvaluationLink(company.CompanyID),
	})
}
