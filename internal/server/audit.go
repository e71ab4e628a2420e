package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/tiffinlabs/mealgrid/internal/audit/domain"
	catalogdomain "github.com/tiffinlabs/mealgrid/internal/catalog/domain"
)

// @Summary      List Audit Logs
// @Description  Recent meal edit and propagation audit entries for a seller
// @Tags         audit
// @Produce      json
// @Param        id      path   string  true   "Seller ID"
// @Param        action  query  string  false  "Action"
// @Param        limit   query  int     false  "Limit"
// @Success      200  {object}  []auditdomain.AuditLog
// @Router       /sellers/{id}/audit-logs [get]
func (s *Server) ListAuditLogs(c *gin.Context) {
	sellerID, err := catalogdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query struct {
		Action string `form:"action"`
		Limit  int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entries, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListFilter{
		SellerID: sellerID,
		Action:   strings.TrimSpace(query.Action),
		Limit:    query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
