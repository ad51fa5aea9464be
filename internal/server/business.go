package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	businessdomain "github.com/smallbiznis/gstbilling/internal/business/domain"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
)

type upsertBusinessRequest struct {
	LegalName string         `json:"legal_name" binding:"required"`
	Nickname  string         `json:"nickname"`
	GSTIN     string         `json:"gstin" binding:"omitempty,gstin"`
	PAN       string         `json:"pan" binding:"omitempty,pan"`
	StateCode string         `json:"state_code" binding:"omitempty,len=2,numeric"`
	State     string         `json:"state"`
	Phone1    string         `json:"phone_1"`
	Phone2    string         `json:"phone_2"`
	Email1    string         `json:"email_1" binding:"omitempty,email"`
	Email2    string         `json:"email_2" binding:"omitempty,email"`
	Address1  string         `json:"address_1"`
	Address2  string         `json:"address_2"`
	Others    string         `json:"others"`
	Metadata  map[string]any `json:"metadata"`
}

func (s *Server) GetBusiness(c *gin.Context) {
	resp, err := s.businessSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpsertBusiness(c *gin.Context) {
	var req upsertBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.businessSvc.Upsert(c.Request.Context(), businessdomain.UpsertBusinessRequest{
		LegalName: req.LegalName,
		Nickname:  req.Nickname,
		GSTIN:     req.GSTIN,
		PAN:       req.PAN,
		StateCode: req.StateCode,
		State:     req.State,
		Phone1:    req.Phone1,
		Phone2:    req.Phone2,
		Email1:    req.Email1,
		Email2:    req.Email2,
		Address1:  req.Address1,
		Address2:  req.Address2,
		Others:    req.Others,
		Metadata:  req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportBusiness(c *gin.Context) {
	out, err := s.businessSvc.ExportSpreadsheet(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeAttachment(c, spreadsheet.ContentType, spreadsheet.Filename("business"), out)
}

func (s *Server) ImportBusiness(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "invalid_file", "file is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer file.Close()

	resp, err := s.businessSvc.ImportSpreadsheet(c.Request.Context(), file)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
