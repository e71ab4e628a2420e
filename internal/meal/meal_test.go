package meal

import (
	"errors"
	"testing"
)

func TestNormalizeItemsDefaults(t *testing.T) {
	items, err := NormalizeItems([]Item{{Name: "  Paneer Rice  "}})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if items[0].Name != "Paneer Rice" {
		t.Fatalf("expected trimmed name, got %q", items[0].Name)
	}
	if items[0].Quantity != "1 serving" {
		t.Fatalf("expected default quantity, got %q", items[0].Quantity)
	}
	if items[0].Description != "" {
		t.Fatalf("expected empty description, got %q", items[0].Description)
	}
}

func TestNormalizeItemsRejectsEmptyList(t *testing.T) {
	if _, err := NormalizeItems(nil); !errors.Is(err, ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}

func TestNormalizeItemsRejectsBlankName(t *testing.T) {
	_, err := NormalizeItems([]Item{{Name: "Dal"}, {Name: "   "}})
	if !errors.Is(err, ErrEmptyItemName) {
		t.Fatalf("expected ErrEmptyItemName, got %v", err)
	}
}

func TestShiftInScope(t *testing.T) {
	cases := []struct {
		sub  Shift
		edit Shift
		want bool
	}{
		{ShiftMorning, "", true},
		{ShiftEvening, "", true},
		{ShiftBoth, "", true},
		{ShiftMorning, ShiftMorning, true},
		{ShiftEvening, ShiftMorning, false},
		{ShiftBoth, ShiftMorning, true},
		{ShiftBoth, ShiftEvening, true},
		{ShiftMorning, ShiftEvening, false},
	}
	for _, tc := range cases {
		if got := ShiftInScope(tc.sub, tc.edit); got != tc.want {
			t.Fatalf("ShiftInScope(%q, %q) = %v, want %v", tc.sub, tc.edit, got, tc.want)
		}
	}
}

func TestValidEditShift(t *testing.T) {
	if !ValidEditShift(ShiftMorning) || !ValidEditShift(ShiftEvening) {
		t.Fatalf("morning and evening must be valid edit shifts")
	}
	if ValidEditShift(ShiftBoth) {
		t.Fatalf("both must not be a valid edit shift")
	}
	if ValidEditShift("midnight") {
		t.Fatalf("unknown shift must not be valid")
	}
}

func TestDefaultMealType(t *testing.T) {
	if DefaultMealType(ShiftMorning) != MealTypeLunch {
		t.Fatalf("morning shift should default to lunch")
	}
	if DefaultMealType(ShiftEvening) != MealTypeDinner {
		t.Fatalf("evening shift should default to dinner")
	}
	if DefaultMealType(ShiftBoth) != MealTypeDinner {
		t.Fatalf("both shift should default to dinner")
	}
}
