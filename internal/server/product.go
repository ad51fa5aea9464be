package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	"github.com/smallbiznis/gstbilling/internal/providers/spreadsheet"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
)

type upsertProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description *string          `json:"description"`
	HSN         string           `json:"hsn" binding:"omitempty,numeric,max=8"`
	UOM         string           `json:"uom"`
	DefaultRate decimal.Decimal  `json:"default_rate"`
	GSTPercent  *decimal.Decimal `json:"gst_percent"`
}

func (s *Server) UpsertProduct(c *gin.Context) {
	var req upsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.productSvc.Upsert(c.Request.Context(), productdomain.UpsertRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		HSN:         strings.TrimSpace(req.HSN),
		UOM:         strings.TrimSpace(req.UOM),
		DefaultRate: req.DefaultRate,
		GSTPercent:  req.GSTPercent,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Search:    strings.TrimSpace(query.Search),
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	resp, err := s.productSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	if err := s.productSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ExportProducts(c *gin.Context) {
	out, err := s.productSvc.ExportSpreadsheet(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeAttachment(c, spreadsheet.ContentType, spreadsheet.Filename("products"), out)
}
