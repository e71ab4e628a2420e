package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tiffinlabs/mealgrid/internal/actorcontext"
	catalogdomain "github.com/tiffinlabs/mealgrid/internal/catalog/domain"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	propagationdomain "github.com/tiffinlabs/mealgrid/internal/propagation/domain"
)

type editMealItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
}

type editMealRequest struct {
	Tier        string         `json:"tier"`
	Shift       string         `json:"shift"`
	OfferingID  string         `json:"offering_id"`
	Items       []editMealItem `json:"items"`
	MealType    string         `json:"meal_type"`
	IsAvailable *bool          `json:"is_available"`
}

// @Summary      Edit Meal
// @Description  Apply a meal edit to a seller tier and propagate it to all active subscriptions
// @Tags         meals
// @Accept       json
// @Produce      json
// @Param        id      path  string          true  "Seller ID"
// @Param        request body  editMealRequest true  "Edit Meal Request"
// @Success      200  {object}  propagationdomain.PropagationResult
// @Router       /sellers/{id}/meals [post]
func (s *Server) EditMeal(c *gin.Context) {
	sellerID, err := catalogdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	actorID := actorcontext.ActorFromContext(c.Request.Context())
	if actorID == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	if !s.editLimiter.Allow(actorID) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	var req editMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	cmd := propagationdomain.EditMealCommand{
		SellerID:    sellerID,
		Tier:        strings.TrimSpace(req.Tier),
		Shift:       meal.Shift(strings.TrimSpace(req.Shift)),
		MealType:    meal.MealType(strings.TrimSpace(req.MealType)),
		IsAvailable: req.IsAvailable,
		ActorID:     actorID,
	}
	if raw := strings.TrimSpace(req.OfferingID); raw != "" {
		offeringID, err := catalogdomain.ParseID(raw)
		if err != nil {
			AbortWithError(c, newValidationError("offering_id", "invalid_offering_id", "invalid offering_id"))
			return
		}
		cmd.OfferingID = offeringID
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, meal.Item{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
		})
	}

	result, err := s.propagationSvc.Propagate(c.Request.Context(), cmd)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// @Summary      Get Meal Configuration
// @Description  Get the canonical meal configuration for a seller tier
// @Tags         meals
// @Produce      json
// @Param        id    path  string  true  "Seller ID"
// @Param        tier  path  string  true  "Tier"
// @Success      200  {object}  mealconfigdomain.MealConfiguration
// @Router       /sellers/{id}/meal-configurations/{tier} [get]
func (s *Server) GetMealConfiguration(c *gin.Context) {
	sellerID, err := catalogdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	cfg, err := s.configSvc.Get(c.Request.Context(), sellerID, c.Param("tier"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

// @Summary      Meal Suggestions
// @Description  Suggested meal templates and current content for an editing surface
// @Tags         meals
// @Produce      json
// @Param        id    path   string  true  "Seller ID"
// @Param        tier  query  string  true  "Tier"
// @Success      200  {object}  mealconfigdomain.Suggestions
// @Router       /sellers/{id}/meal-suggestions [get]
func (s *Server) MealSuggestions(c *gin.Context) {
	sellerID, err := catalogdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	suggestions, err := s.configSvc.Suggestions(c.Request.Context(), sellerID, c.Query("tier"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": suggestions})
}
