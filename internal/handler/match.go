package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lupa-app/lupa/internal/match"
	"github.com/lupa-app/lupa/internal/repository"
	"github.com/lupa-app/lupa/pkg/model"
	"github.com/lupa-app/lupa/pkg/response"
)

// CreateMatch records a compatibility score for one of the company's people.
func (h *Handler) CreateMatch(c *gin.Context) {
	company := h.currentCompany(c)
	if company == nil {
		return
	}
	var req model.CreateMatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := match.ParseAnalysis(req.AnalysisResult); err != nil {
		var verr *match.ValidationError
		if errors.As(err, &verr) {
			response.ValidationError(c, "invalid analysis_result", verr.Details...)
			return
		}
		response.ValidationError(c, err.Error())
		return
	}

	m := &model.Match{
		PersonID:           req.PersonID,
		CompanyID:          company.CompanyID,
		CompatibilityScore: req.CompatibilityScore,
		AnalysisResult:     req.AnalysisResult,
	}
	if err := h.Store.CreateMatch(c.Request.Context(), m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "person not found")
			return
		}
		h.Logger.Sugar().Errorw("create match failed", "company_id", company.CompanyID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.Created(c, m)
}

func (h *Handler) ListMatches(c *gin.Context) {
	company := h.currentCompany(c)
	if company == nil {
		return
	}
	ms, err := h.Store.ListMatches(c.Request.Context(), company.CompanyID)
	if err != nil {
		h.Logger.Sugar().Errorw("list matches failed", "company_id", company.CompanyID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, ms)
}

func (h *Handler) GetMatch(c *gin.Context) {
	company := h.currentCompany(c)
	if company == nil {
		return
	}
	matchID := c.Param("id")
	if _, err := uuid.Parse(matchID); err != nil {
		response.NotFound(c, "match not found")
		return
	}
	m, err := h.Store.GetMatch(c.Request.Context(), company.CompanyID, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "match not found")
			return
		}
		h.Logger.Sugar().Errorw("get match failed", "company_id", company.CompanyID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, m)
}

// Dashboard aggregates the company's matches.
func (h *Handler) Dashboard(c *gin.Context) {
	company := h.currentCompany(c)
	if company == nil {
		return
	}
	ms, err := h.Store.ListMatches(c.Request.Context(), company.CompanyID)
	if err != nil {
		h.Logger.Sugar().Errorw("dashboard: list matches failed", "company_id", company.CompanyID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, match.Summarize(ms))
}
