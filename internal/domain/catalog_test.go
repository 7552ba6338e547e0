package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultCatalogValidates(t *testing.T) {
	if err := DefaultCatalog().Validate(); err != nil {
		t.Fatalf("default catalog failed validation: %v", err)
	}
}

func TestValidateRejectsRecipeWithoutPrice(t *testing.T) {
	c := DefaultCatalog()
	delete(c.Prices, DishTapsilog)

	if err := c.Validate(); err == nil {
		t.Error("expected error for recipe without price, got nil")
	}
}

func TestValidateRejectsPriceWithoutRecipe(t *testing.T) {
	c := DefaultCatalog()
	delete(c.Recipes, DishSilog)

	if err := c.Validate(); err == nil {
		t.Error("expected error for price without recipe, got nil")
	}
}

func TestValidateRejectsZeroCapacity(t *testing.T) {
	c := DefaultCatalog()
	c.Capacities[IngredientRice] = 0

	if err := c.Validate(); err == nil {
		t.Error("expected error for zero capacity, got nil")
	}
}

func TestParseDish(t *testing.T) {
	c := DefaultCatalog()

	if _, ok := c.ParseDish("Tapsilog"); !ok {
		t.Error("Tapsilog should parse")
	}
	if _, ok := c.ParseDish("tapsilog"); ok {
		t.Error("dish names are case sensitive, tapsilog should not parse")
	}
	if _, ok := c.ParseDish("Adobo"); ok {
		t.Error("Adobo should not parse")
	}
}

func TestParseIngredient(t *testing.T) {
	c := DefaultCatalog()

	if _, ok := c.ParseIngredient("Oil"); !ok {
		t.Error("Oil should parse")
	}
	if _, ok := c.ParseIngredient("Salt"); ok {
		t.Error("Salt should not parse")
	}
}

func TestEveryRecipeIngredientHasCapacity(t *testing.T) {
	c := DefaultCatalog()
	for dish, recipe := range c.Recipes {
		for ing := range recipe {
			if _, ok := c.Capacities[ing]; !ok {
				t.Errorf("dish %s uses %s, which has no unit capacity", dish, ing)
			}
		}
	}
}

func TestDefaultPrices(t *testing.T) {
	c := DefaultCatalog()

	want := map[Dish]string{
		DishTapsilog:  "120.00",
		DishPorksilog: "70.00",
	}
	for dish, raw := range want {
		if got := c.Prices[dish]; !got.Equal(decimal.RequireFromString(raw)) {
			t.Errorf("price of %s = %s, want %s", dish, got, raw)
		}
	}
}
