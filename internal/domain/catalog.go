package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Dish is a closed identifier for a sellable menu item.
type Dish string

const (
	DishTapsilog    Dish = "Tapsilog"
	DishLongsilog   Dish = "Longsilog"
	DishMalingSilog Dish = "Maling silog"
	DishHotsilog    Dish = "Hotsilog"
	DishSilog       Dish = "Silog"
	DishBangusSilog Dish = "Bangus silog"
	DishPorksilog   Dish = "Porksilog"
)

// Ingredient is a closed identifier for a stocked ingredient.
type Ingredient string

const (
	IngredientTapa       Ingredient = "Tapa"
	IngredientLongganisa Ingredient = "Longganisa"
	IngredientMaling     Ingredient = "Maling"
	IngredientHotdog     Ingredient = "Hotdog"
	IngredientBangus     Ingredient = "Bangus"
	IngredientPork       Ingredient = "Pork"
	IngredientChicken    Ingredient = "Chicken"
	IngredientRice       Ingredient = "Rice"
	IngredientEgg        Ingredient = "Egg"
	IngredientGarlic     Ingredient = "Garlic"
	IngredientOil        Ingredient = "Oil"
	IngredientKetchup    Ingredient = "Ketchup"
)

// Recipe maps each ingredient to the servings consumed per dish sold.
type Recipe map[Ingredient]int

// Catalog holds the static menu configuration: prices, recipes, and
// ingredient unit capacities. It is loaded once at startup and read-only
// afterwards.
type Catalog struct {
	Prices     map[Dish]decimal.Decimal
	Recipes    map[Dish]Recipe
	Capacities map[Ingredient]int // servings per one stock unit
	UnitLabels map[Ingredient]string
}

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// DefaultCatalog returns the eatery's fixed menu.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Prices: map[Dish]decimal.Decimal{
			DishTapsilog:    price("120.00"),
			DishLongsilog:   price("80.00"),
			DishMalingSilog: price("50.00"),
			DishHotsilog:    price("60.00"),
			DishSilog:       price("60.00"),
			DishBangusSilog: price("90.00"),
			DishPorksilog:   price("70.00"),
		},
		Recipes: map[Dish]Recipe{
			DishTapsilog:    {IngredientTapa: 1, IngredientRice: 1, IngredientEgg: 1, IngredientGarlic: 1, IngredientOil: 1},
			DishLongsilog:   {IngredientLongganisa: 1, IngredientRice: 1, IngredientEgg: 1, IngredientGarlic: 1, IngredientOil: 1},
			DishMalingSilog: {IngredientMaling: 1, IngredientRice: 1, IngredientEgg: 1, IngredientGarlic: 1, IngredientOil: 1},
			DishHotsilog:    {IngredientHotdog: 1, IngredientRice: 1, IngredientEgg: 1, IngredientGarlic: 1, IngredientOil: 1},
			DishSilog:       {IngredientRice: 1, IngredientEgg: 1, IngredientGarlic: 1, IngredientOil: 1},
			DishBangusSilog: {IngredientBangus: 1, IngredientRice: 1, IngredientEgg: 1, IngredientGarlic: 1, IngredientOil: 1},
			DishPorksilog:   {IngredientPork: 1, IngredientRice: 1, IngredientEgg: 1, IngredientGarlic: 1, IngredientOil: 1},
		},
		Capacities: map[Ingredient]int{
			IngredientOil:        25,  // 1 gallon
			IngredientRice:       100, // 1 sack
			IngredientMaling:     6,   // 1 can
			IngredientGarlic:     150, // 1 kg
			IngredientEgg:        25,  // 1 tray
			IngredientHotdog:     5,   // 1 pack
			IngredientLongganisa: 6,   // 1 dozen
			IngredientPork:       1,
			IngredientChicken:    1,
			IngredientTapa:       1,
			IngredientBangus:     1,
			IngredientKetchup:    1,
		},
		UnitLabels: map[Ingredient]string{
			IngredientPork:       "packed in plastic",
			IngredientHotdog:     "packs",
			IngredientChicken:    "packed in plastic",
			IngredientMaling:     "cans",
			IngredientTapa:       "packed in plastic",
			IngredientLongganisa: "dozens",
			IngredientBangus:     "pieces",
			IngredientEgg:        "trays",
			IngredientRice:       "sack",
			IngredientGarlic:     "kilogram",
			IngredientOil:        "gallon",
			IngredientKetchup:    "gallon",
		},
	}
}

// Validate checks the catalog once at load. Missing unit capacities are
// deliberately not an error here: the fulfillment engine reports them as
// insufficiencies so a bad config entry cannot crash the process.
func (c *Catalog) Validate() error {
	if len(c.Recipes) == 0 {
		return fmt.Errorf("catalog has no recipes")
	}
	for dish, recipe := range c.Recipes {
		if _, ok := c.Prices[dish]; !ok {
			return fmt.Errorf("dish %q has a recipe but no price", dish)
		}
		if len(recipe) == 0 {
			return fmt.Errorf("dish %q has an empty recipe", dish)
		}
		for ing, servings := range recipe {
			if servings <= 0 {
				return fmt.Errorf("dish %q: ingredient %q servings must be positive", dish, ing)
			}
		}
	}
	for dish := range c.Prices {
		if _, ok := c.Recipes[dish]; !ok {
			return fmt.Errorf("dish %q has a price but no recipe", dish)
		}
	}
	for ing, capacity := range c.Capacities {
		if capacity <= 0 {
			return fmt.Errorf("ingredient %q: unit capacity must be positive", ing)
		}
	}
	return nil
}

// ParseDish validates a raw string against the catalog.
func (c *Catalog) ParseDish(name string) (Dish, bool) {
	dish := Dish(name)
	_, ok := c.Recipes[dish]
	return dish, ok
}

// ParseIngredient validates a raw string against the capacity table.
func (c *Catalog) ParseIngredient(name string) (Ingredient, bool) {
	ing := Ingredient(name)
	_, ok := c.Capacities[ing]
	return ing, ok
}

// Dishes returns the menu in a stable order.
func (c *Catalog) Dishes() []Dish {
	return []Dish{
		DishTapsilog, DishLongsilog, DishMalingSilog, DishHotsilog,
		DishSilog, DishBangusSilog, DishPorksilog,
	}
}

// Ingredients returns the ingredient set in a stable order.
func (c *Catalog) Ingredients() []Ingredient {
	return []Ingredient{
		IngredientPork, IngredientHotdog, IngredientChicken, IngredientMaling,
		IngredientTapa, IngredientLongganisa, IngredientBangus, IngredientEgg,
		IngredientRice, IngredientGarlic, IngredientOil, IngredientKetchup,
	}
}
