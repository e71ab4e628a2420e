package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	catalogdomain "github.com/tiffinlabs/mealgrid/internal/catalog/domain"
)

// @Summary      Staleness Dashboard
// @Description  Active subscriptions missing a usable same-day meal, by seller
// @Tags         dashboard
// @Produce      json
// @Param        seller_id  query  string  false  "Seller ID"
// @Success      200  {object}  dashboarddomain.StalenessReport
// @Router       /dashboard/staleness [get]
func (s *Server) Staleness(c *gin.Context) {
	var sellerID snowflake.ID
	if raw := strings.TrimSpace(c.Query("seller_id")); raw != "" {
		parsed, err := catalogdomain.ParseID(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		sellerID = parsed
	}

	report, err := s.dashboardSvc.ComputeStaleness(c.Request.Context(), sellerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
