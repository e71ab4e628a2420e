package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tiffinlabs/mealgrid/internal/actorcontext"
	catalogdomain "github.com/tiffinlabs/mealgrid/internal/catalog/domain"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	subscriptiondomain "github.com/tiffinlabs/mealgrid/internal/subscription/domain"
)

type editSubscriptionMealRequest struct {
	Items       []editMealItem `json:"items"`
	MealType    string         `json:"meal_type"`
	IsAvailable *bool          `json:"is_available"`
}

// @Summary      Edit Subscription Meal
// @Description  Apply a one-off meal snapshot to a single subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        id      path  string                      true  "Subscription ID"
// @Param        request body  editSubscriptionMealRequest true  "Edit Request"
// @Success      200  {object}  subscriptiondomain.Subscription
// @Router       /subscriptions/{id}/meal [patch]
func (s *Server) EditSubscriptionMeal(c *gin.Context) {
	subscriptionID, err := catalogdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	actorID := actorcontext.ActorFromContext(c.Request.Context())
	if actorID == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req editSubscriptionMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	edit := subscriptiondomain.EditMealRequest{
		SubscriptionID: subscriptionID,
		MealType:       meal.MealType(strings.TrimSpace(req.MealType)),
		IsAvailable:    req.IsAvailable,
		ActorID:        actorID,
	}
	for _, item := range req.Items {
		edit.Items = append(edit.Items, meal.Item{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
		})
	}

	sub, err := s.subscriptionSvc.EditMeal(c.Request.Context(), edit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		sellerID := sub.SellerID
		targetID := sub.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &sellerID, "user", &actorID, "meal.updated", "subscription", &targetID, map[string]any{
			"subscription_id": sub.ID.String(),
			"meal_type":       string(sub.TodayMeal.Data().MealType),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": sub})
}
