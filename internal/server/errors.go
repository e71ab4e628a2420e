package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/tiffinlabs/mealgrid/internal/catalog/domain"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	mealconfigdomain "github.com/tiffinlabs/mealgrid/internal/mealconfig/domain"
	propagationdomain "github.com/tiffinlabs/mealgrid/internal/propagation/domain"
	subscriptiondomain "github.com/tiffinlabs/mealgrid/internal/subscription/domain"
)

var (
	ErrNotFound           = &apiError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrUnauthorized       = &apiError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "unauthorized"}
	ErrTooManyRequests    = &apiError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many edits, retry later"}
	ErrServiceUnavailable = &apiError{Status: http.StatusServiceUnavailable, Code: "unavailable", Message: "service unavailable"}
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *apiError) Error() string { return e.Code }

func invalidRequestError() *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "malformed request body"}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Message: message,
		Details: gin.H{"field": field},
	}
}

// AbortWithError translates domain errors into API responses. Validation
// errors map to 400, unknown targets to 404, everything unrecognized to 500.
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		c.AbortWithStatusJSON(api.Status, gin.H{"error": api})
		return
	}

	var unknownTier *propagationdomain.UnknownTierError
	if errors.As(err, &unknownTier) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": &apiError{
			Code:    "unknown_tier",
			Message: "seller has no offering of this tier",
			Details: gin.H{
				"tier":            unknownTier.Tier,
				"available_tiers": unknownTier.AvailableTiers,
			},
		}})
		return
	}

	switch {
	case errors.Is(err, meal.ErrNoItems),
		errors.Is(err, meal.ErrEmptyItemName),
		errors.Is(err, meal.ErrInvalidShift),
		errors.Is(err, propagationdomain.ErrInvalidSeller),
		errors.Is(err, propagationdomain.ErrInvalidTier),
		errors.Is(err, propagationdomain.ErrMissingActor),
		errors.Is(err, catalogdomain.ErrInvalidSeller),
		errors.Is(err, catalogdomain.ErrInvalidTier),
		errors.Is(err, mealconfigdomain.ErrInvalidSeller),
		errors.Is(err, mealconfigdomain.ErrInvalidTier):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": &apiError{
			Code:    err.Error(),
			Message: "invalid request",
		}})
	case errors.Is(err, mealconfigdomain.ErrNotFound),
		errors.Is(err, subscriptiondomain.ErrNotFound),
		errors.Is(err, propagationdomain.ErrOfferingNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": &apiError{
			Code:    err.Error(),
			Message: "resource not found",
		}})
	case errors.Is(err, subscriptiondomain.ErrInactive):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": &apiError{
			Code:    err.Error(),
			Message: "subscription is not active",
		}})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": &apiError{
			Code:    "internal",
			Message: "internal error",
		}})
	}
}
