package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
)

type customerRequest struct {
	Name      string         `json:"name" binding:"required"`
	Nickname  string         `json:"nickname"`
	GSTIN     string         `json:"gstin" binding:"omitempty,gstin"`
	StateCode string         `json:"state_code" binding:"omitempty,len=2,numeric"`
	State     string         `json:"state"`
	City      string         `json:"city"`
	Phone1    string         `json:"phone_1"`
	Phone2    string         `json:"phone_2"`
	Email1    string         `json:"email_1"`
	Email2    string         `json:"email_2"`
	Address1  string         `json:"address_1"`
	Address2  string         `json:"address_2"`
	Metadata  map[string]any `json:"metadata"`
}

func (r customerRequest) toDomain() customerdomain.CustomerRequest {
	return customerdomain.CustomerRequest{
		Name:      strings.TrimSpace(r.Name),
		Nickname:  strings.TrimSpace(r.Nickname),
		GSTIN:     r.GSTIN,
		StateCode: r.StateCode,
		State:     r.State,
		City:      r.City,
		Phone1:    r.Phone1,
		Phone2:    r.Phone2,
		Email1:    r.Email1,
		Email2:    r.Email2,
		Address1:  r.Address1,
		Address2:  r.Address2,
		Metadata:  r.Metadata,
	}
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Search:    strings.TrimSpace(query.Search),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	if err := s.customerSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ExportCustomers(c *gin.Context) {
	out, err := s.customerSvc.ExportSpreadsheet(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeAttachment(c, spreadsheet.ContentType, spreadsheet.Filename("customers"), out)
}
