package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/tiffinlabs/mealgrid/internal/catalog/domain"
	"github.com/tiffinlabs/mealgrid/pkg/db/pagination"
)

// @Summary      List Tiers
// @Description  List the distinct tiers a seller currently offers
// @Tags         tiers
// @Produce      json
// @Param        id  path  string  true  "Seller ID"
// @Success      200  {object}  []string
// @Router       /sellers/{id}/tiers [get]
func (s *Server) ListTiers(c *gin.Context) {
	sellerID, err := catalogdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	tiers, err := s.catalogSvc.ListTiers(c.Request.Context(), sellerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tiers})
}

// @Summary      List Offerings
// @Description  Page through a seller's offerings, optionally filtered by tier
// @Tags         tiers
// @Produce      json
// @Param        id          path   string  true   "Seller ID"
// @Param        tier        query  string  false  "Tier"
// @Param        page_token  query  string  false  "Page Token"
// @Param        page_size   query  int     false  "Page Size"
// @Success      200  {object}  catalogdomain.ListOfferingsResponse
// @Router       /sellers/{id}/offerings [get]
func (s *Server) ListOfferings(c *gin.Context) {
	sellerID, err := catalogdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query struct {
		pagination.Pagination
		Tier string `form:"tier"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.ListOfferings(c.Request.Context(), catalogdomain.ListOfferingsRequest{
		SellerID:  sellerID,
		Tier:      strings.TrimSpace(query.Tier),
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
