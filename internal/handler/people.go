package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lupa-app/lupa/internal/repository"
	"github.com/lupa-app/lupa/pkg/response"
)

func (h *Handler) ListPeople(c *gin.Context) {
	company := h.currentCompany(c)
	if company == nil {
		return
	}
	people, err := h.Store.ListPeople(c.Request.Context(), company.CompanyID)
	if err != nil {
		h.Logger.Sugar().Errorw("list people failed", "company_id", company.CompanyID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, people)
}

// GetPerson returns one respondent with answers; people of other companies
// are reported as not found.
func (h *Handler) GetPerson(c *gin.Context) {
	company := h.currentCompany(c)
	if company == nil {
		return
	}
	personID := c.Param("id")
	if _, err := uuid.Parse(personID); err != nil {
		response.NotFound(c, "person not found")
		return
	}
	d, err := h.Store.GetPersonDetails(c.Request.Context(), company.CompanyID, personID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "person not found")
			return
		}
		h.Logger.Sugar().Errorw("get person failed", "company_id", company.CompanyID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, d)
}
