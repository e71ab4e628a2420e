package domain

import (
	"strings"

	"github.com/tiffinlabs/mealgrid/internal/meal"
)

// TierTemplates is suggested starting content for a tier, shown in editing
// surfaces. It is never authoritative; only an explicit edit persists meal
// content onto subscriptions.
type TierTemplates struct {
	Lunch  []meal.Item `json:"lunch"`
	Dinner []meal.Item `json:"dinner"`
}

// Template classification works by substring matching on the lower-cased
// tier name, evaluated in order with a default fallback. A tier literally
// named "Not Premium" would classify as premium; sellers picking an explicit
// template key would remove that ambiguity.
// TODO: let sellers choose a template key instead of name-sniffing.
var templateRules = []struct {
	match    func(string) bool
	template TierTemplates
}{
	{
		match: func(name string) bool {
			return strings.Contains(name, "premium") || strings.Contains(name, "delux")
		},
		template: premiumTemplate,
	},
	{
		match: func(name string) bool {
			return strings.Contains(name, "low") || strings.Contains(name, "budget")
		},
		template: lowTemplate,
	},
}

// TemplateFor picks heuristic default meal content for a tier name so a
// never-before-seen tier presents sensible content instead of a blank form.
func TemplateFor(tierName string) TierTemplates {
	name := strings.ToLower(strings.TrimSpace(tierName))
	for _, rule := range templateRules {
		if rule.match(name) {
			return rule.template
		}
	}
	return basicTemplate
}

var premiumTemplate = TierTemplates{
	Lunch: []meal.Item{
		{Name: "Paneer Butter Masala", Description: "Rich cottage cheese curry", Quantity: "1 bowl"},
		{Name: "Jeera Rice", Description: "Cumin tempered basmati rice", Quantity: "1 plate"},
		{Name: "Butter Naan", Description: "", Quantity: "2 pieces"},
		{Name: "Dal Tadka", Description: "Yellow lentils with ghee tempering", Quantity: "1 bowl"},
		{Name: "Gulab Jamun", Description: "Dessert", Quantity: "2 pieces"},
	},
	Dinner: []meal.Item{
		{Name: "Shahi Paneer", Description: "Creamy paneer gravy", Quantity: "1 bowl"},
		{Name: "Tandoori Roti", Description: "", Quantity: "3 pieces"},
		{Name: "Veg Pulao", Description: "", Quantity: "1 plate"},
		{Name: "Raita", Description: "Curd with cucumber", Quantity: "1 bowl"},
	},
}

var lowTemplate = TierTemplates{
	Lunch: []meal.Item{
		{Name: "Dal", Description: "Plain yellow dal", Quantity: "1 bowl"},
		{Name: "Rice", Description: "", Quantity: "1 plate"},
		{Name: "Roti", Description: "", Quantity: "2 pieces"},
	},
	Dinner: []meal.Item{
		{Name: "Seasonal Sabzi", Description: "", Quantity: "1 bowl"},
		{Name: "Roti", Description: "", Quantity: "3 pieces"},
		{Name: "Pickle", Description: "", Quantity: "1 serving"},
	},
}

var basicTemplate = TierTemplates{
	Lunch: []meal.Item{
		{Name: "Mixed Veg Curry", Description: "", Quantity: "1 bowl"},
		{Name: "Dal Fry", Description: "", Quantity: "1 bowl"},
		{Name: "Steamed Rice", Description: "", Quantity: "1 plate"},
		{Name: "Roti", Description: "", Quantity: "3 pieces"},
		{Name: "Salad", Description: "", Quantity: "1 serving"},
	},
	Dinner: []meal.Item{
		{Name: "Aloo Gobi", Description: "", Quantity: "1 bowl"},
		{Name: "Dal", Description: "", Quantity: "1 bowl"},
		{Name: "Roti", Description: "", Quantity: "3 pieces"},
		{Name: "Papad", Description: "", Quantity: "1 piece"},
	},
}
