// Package meal holds the value objects shared by the configuration store and
// the subscription snapshot writer: meal items, snapshots, shifts and the
// shift targeting rule.
package meal

import (
	"errors"
	"strings"
	"time"
)

// Shift is the service window a subscription is pinned to. "both" is a
// subscription-level sentinel spanning both windows; it is never a valid
// scope for a shift-scoped edit.
type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
	ShiftBoth    Shift = "both"
)

// MealType distinguishes the lunch and dinner variants of a snapshot.
type MealType string

const (
	MealTypeLunch  MealType = "lunch"
	MealTypeDinner MealType = "dinner"
	MealTypeBoth   MealType = "both"
)

const defaultQuantity = "1 serving"

var (
	ErrNoItems       = errors.New("no_items")
	ErrEmptyItemName = errors.New("empty_item_name")
	ErrInvalidShift  = errors.New("invalid_shift")
)

// Item is a single dish inside a meal snapshot.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
}

// Snapshot is the concrete meal content materialized for one day. It is a
// full-replace value: re-applying the same snapshot converges to the same
// state.
type Snapshot struct {
	Items       []Item    `json:"items"`
	MealType    MealType  `json:"meal_type"`
	Date        time.Time `json:"date"`
	IsAvailable bool      `json:"is_available"`
	LastUpdated time.Time `json:"last_updated"`
	UpdatedBy   string    `json:"updated_by"`
}

// ValidEditShift reports whether a shift may scope an edit. Only the two
// concrete windows qualify.
func ValidEditShift(shift Shift) bool {
	return shift == ShiftMorning || shift == ShiftEvening
}

// ShiftInScope is the single authority for edit targeting. An unscoped edit
// reaches every shift; a scoped edit reaches the matching shift plus
// dual-shift subscribers.
func ShiftInScope(subscriptionShift, editShift Shift) bool {
	if editShift == "" {
		return true
	}
	return subscriptionShift == editShift || subscriptionShift == ShiftBoth
}

// DefaultMealType resolves the meal type when a caller omits it: lunch for
// morning-shift subscribers, dinner otherwise.
func DefaultMealType(subscriptionShift Shift) MealType {
	if subscriptionShift == ShiftMorning {
		return MealTypeLunch
	}
	return MealTypeDinner
}

// NormalizeItems trims names and fills the description and quantity defaults.
// It rejects empty item lists and items whose name is empty after trimming,
// before anything is written.
func NormalizeItems(items []Item) ([]Item, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, ErrEmptyItemName
		}
		quantity := strings.TrimSpace(item.Quantity)
		if quantity == "" {
			quantity = defaultQuantity
		}
		out = append(out, Item{
			Name:        name,
			Description: strings.TrimSpace(item.Description),
			Quantity:    quantity,
		})
	}
	return out, nil
}

// Validate checks a snapshot before it is written onto a record.
func (s Snapshot) Validate() error {
	if len(s.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range s.Items {
		if strings.TrimSpace(item.Name) == "" {
			return ErrEmptyItemName
		}
	}
	return nil
}
