package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/leshley-eatery/silogan/internal/adapter/logger"
	"github.com/leshley-eatery/silogan/internal/adapter/postgres"
	"github.com/leshley-eatery/silogan/internal/domain"
	"github.com/leshley-eatery/silogan/internal/interfaces"
)

// Service is the fulfillment engine: it converts dish quantities into
// ingredient consumption and keeps the two stock ledgers and the menu
// availability table consistent. Every mutating operation is one
// transaction; on any failure the ledgers are exactly as before the call.
type Service struct {
	db      postgres.DB
	ledger  interfaces.LedgerRepository
	catalog *domain.Catalog
	logger  logger.Logger
}

func NewService(db postgres.DB, ledger interfaces.LedgerRepository, catalog *domain.Catalog, lgr logger.Logger) *Service {
	return &Service{
		db:      db,
		ledger:  ledger,
		catalog: catalog,
		logger:  lgr,
	}
}

// DeductIngredients consumes the ingredients needed to produce quantity
// servings of dish, inside the caller's transaction. The sufficiency check
// runs over the whole recipe first: if any ingredient falls short, the
// returned InsufficiencyError lists every short ingredient and nothing is
// written.
func (s *Service) DeductIngredients(ctx context.Context, tx postgres.Tx, dish domain.Dish, quantity int) (*interfaces.DeductionReport, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Msg: "quantity must be a positive integer"}
	}
	recipe, ok := s.catalog.Recipes[dish]
	if !ok {
		return nil, &domain.ValidationError{Msg: fmt.Sprintf("no recipe found for %s", dish)}
	}

	type deduction struct {
		ingredient domain.Ingredient
		capacity   int
		units      decimal.Decimal
	}

	var (
		deductions []deduction
		shortfalls []domain.Shortfall
	)

	for _, ing := range sortedIngredients(recipe) {
		servings := recipe[ing]

		capacity, ok := s.catalog.Capacities[ing]
		if !ok {
			shortfalls = append(shortfalls, domain.Shortfall{
				Name:   string(ing),
				Reason: "no unit capacity defined",
			})
			continue
		}

		stockUnits, err := s.ledger.IngredientStockForUpdate(ctx, tx, ing)
		if err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				shortfalls = append(shortfalls, domain.Shortfall{
					Name:   string(ing),
					Reason: "not in inventory",
				})
				continue
			}
			return nil, &domain.PersistenceError{Op: "read ingredient stock", Err: err}
		}

		unitCap := decimal.NewFromInt(int64(capacity))
		requiredServings := decimal.NewFromInt(int64(servings * quantity))
		availableServings := stockUnits.Mul(unitCap)

		if availableServings.LessThan(requiredServings) {
			shortfalls = append(shortfalls, domain.Shortfall{
				Name:      string(ing),
				Required:  requiredServings,
				Available: availableServings,
			})
			continue
		}

		deductions = append(deductions, deduction{
			ingredient: ing,
			capacity:   capacity,
			units:      requiredServings.Div(unitCap),
		})
	}

	if len(shortfalls) > 0 {
		return nil, &domain.InsufficiencyError{Items: shortfalls}
	}

	report := &interfaces.DeductionReport{Dish: dish, Quantity: quantity}
	for _, d := range deductions {
		if err := s.ledger.DeductIngredient(ctx, tx, d.ingredient, d.units); err != nil {
			return nil, &domain.PersistenceError{Op: "deduct ingredient", Err: err}
		}

		display := d.units.StringFixed(2)
		if d.capacity == 1 {
			display = d.units.StringFixed(0)
		}
		report.Lines = append(report.Lines, interfaces.DeductionLine{
			Ingredient: d.ingredient,
			Units:      d.units,
			Display:    fmt.Sprintf("%s %s", display, d.ingredient),
		})
	}

	return report, nil
}

// SetDishStock overwrites the recorded stock for a dish. Raising it above
// the current level is a production run: the delta is manufactured by
// consuming ingredients in the same transaction, and any insufficiency
// aborts the whole update. Lowering it is a plain correction. Stock
// reaching zero disables the dish on the menu; raising it from zero never
// re-enables automatically.
func (s *Service) SetDishStock(ctx context.Context, actor domain.Actor, dishName string, newStock int) (*interfaces.ReplenishmentResult, error) {
	if !actor.IsStaff() {
		return nil, &domain.AuthorizationError{Actor: actor, Required: "staff or admin"}
	}
	dish, ok := s.catalog.ParseDish(dishName)
	if !ok {
		return nil, &domain.ValidationError{Msg: fmt.Sprintf("unknown dish: %s", dishName)}
	}
	if newStock < 0 {
		return nil, &domain.ValidationError{Msg: "stock cannot be negative"}
	}

	var result *interfaces.ReplenishmentResult
	err := postgres.WithinTx(ctx, s.db, func(tx postgres.Tx) error {
		current, err := s.ledger.DishStockForUpdate(ctx, tx, dish)
		if err != nil {
			return &domain.PersistenceError{Op: "read dish stock", Err: err}
		}

		res := &interfaces.ReplenishmentResult{
			Dish:          dish,
			PreviousStock: current,
			NewStock:      newStock,
		}

		if newStock > current {
			report, err := s.DeductIngredients(ctx, tx, dish, newStock-current)
			if err != nil {
				return err
			}
			res.Deduction = report
		}

		if err := s.ledger.SetDishStock(ctx, tx, dish, newStock); err != nil {
			return &domain.PersistenceError{Op: "write dish stock", Err: err}
		}

		if newStock == 0 {
			if err := s.ledger.SetAvailability(ctx, tx, dish, domain.NotAvailable); err != nil {
				return &domain.PersistenceError{Op: "disable menu item", Err: err}
			}
			res.MenuDisabled = true
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("dish_stock_updated", fmt.Sprintf("%s stock set to %d", dish, newStock), "", map[string]interface{}{
		"dish":           string(dish),
		"previous_stock": result.PreviousStock,
		"new_stock":      result.NewStock,
		"menu_disabled":  result.MenuDisabled,
	})
	return result, nil
}

// SetAvailability is the manual menu switch. It is how staff re-enable a
// dish after replenishing from zero.
func (s *Service) SetAvailability(ctx context.Context, actor domain.Actor, dishName, statusName string) error {
	if !actor.IsStaff() {
		return &domain.AuthorizationError{Actor: actor, Required: "staff or admin"}
	}
	dish, ok := s.catalog.ParseDish(dishName)
	if !ok {
		return &domain.ValidationError{Msg: fmt.Sprintf("unknown dish: %s", dishName)}
	}
	status, ok := domain.ParseAvailability(statusName)
	if !ok {
		return &domain.ValidationError{Msg: fmt.Sprintf("invalid menu status: %s", statusName)}
	}

	if err := s.ledger.SetAvailability(ctx, s.db, dish, status); err != nil {
		return &domain.PersistenceError{Op: "update menu status", Err: err}
	}

	s.logger.Info("menu_status_updated", fmt.Sprintf("%s set to %s", dish, status), "", nil)
	return nil
}

// SetIngredientStock records received ingredient stock, either adding to or
// overwriting the current unit count.
func (s *Service) SetIngredientStock(ctx context.Context, actor domain.Actor, ingredientName string, units decimal.Decimal, add bool) error {
	if !actor.IsStaff() {
		return &domain.AuthorizationError{Actor: actor, Required: "staff or admin"}
	}
	ing, ok := s.catalog.ParseIngredient(ingredientName)
	if !ok {
		return &domain.ValidationError{Msg: fmt.Sprintf("unknown ingredient: %s", ingredientName)}
	}
	if units.IsNegative() {
		return &domain.ValidationError{Msg: "ingredient stock cannot be negative"}
	}

	err := postgres.WithinTx(ctx, s.db, func(tx postgres.Tx) error {
		if add {
			if err := s.ledger.AddIngredientStock(ctx, tx, ing, units); err != nil {
				return &domain.PersistenceError{Op: "add ingredient stock", Err: err}
			}
			return nil
		}
		if err := s.ledger.SetIngredientStock(ctx, tx, ing, units); err != nil {
			return &domain.PersistenceError{Op: "set ingredient stock", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("ingredient_stock_updated", fmt.Sprintf("%s stock updated", ing), "", map[string]interface{}{
		"ingredient": string(ing),
		"units":      units.String(),
		"add":        add,
	})
	return nil
}

func sortedIngredients(recipe domain.Recipe) []domain.Ingredient {
	ingredients := make([]domain.Ingredient, 0, len(recipe))
	for ing := range recipe {
		ingredients = append(ingredients, ing)
	}
	sort.Slice(ingredients, func(i, j int) bool {
		return ingredients[i] < ingredients[j]
	})
	return ingredients
}
