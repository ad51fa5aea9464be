package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	referencedomain "github.com/smallbiznis/gstbilling/internal/reference/domain"
)

func (s *Server) ListGSTRates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.referenceSvc.GSTRates()})
}

func (s *Server) SearchHSNCodes(c *gin.Context) {
	query := strings.TrimSpace(c.Query("search"))
	c.JSON(http.StatusOK, gin.H{"data": s.referenceSvc.SearchHSN(query)})
}

func (s *Server) ListStates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.referenceSvc.ListStates()})
}

func (s *Server) GetStateByGSTIN(c *gin.Context) {
	state, ok := s.referenceSvc.StateFromGSTIN(c.Param("gstin"))
	if !ok {
		AbortWithError(c, referencedomain.ErrInvalidGSTIN)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": state})
}

func writeAttachment(c *gin.Context, contentType, filename string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}
