package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/leshley-eatery/silogan/internal/domain"
)

// LedgerRepository persists the two stock ledgers (finished dishes and
// ingredients) and the menu availability table. All mutating methods expect
// to run inside a caller-owned transaction; the ForUpdate reads take row
// locks so concurrent approvals and replenishments serialize.
type LedgerRepository struct{}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

func (r *LedgerRepository) DishStockForUpdate(ctx context.Context, q Querier, dish domain.Dish) (int, error) {
	var stock int
	err := q.QueryRow(ctx,
		`SELECT stock FROM food_stock WHERE dish = $1 FOR UPDATE`,
		string(dish),
	).Scan(&stock)
	if err != nil {
		return 0, fmt.Errorf("dish stock for %s: %w", dish, notFoundOr(err))
	}
	return stock, nil
}

func (r *LedgerRepository) SetDishStock(ctx context.Context, q Querier, dish domain.Dish, stock int) error {
	tag, err := q.Exec(ctx,
		`UPDATE food_stock SET stock = $1 WHERE dish = $2`,
		stock, string(dish),
	)
	if err != nil {
		return fmt.Errorf("failed to update dish stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dish stock row missing for %s", dish)
	}
	return nil
}

func (r *LedgerRepository) DishStocks(ctx context.Context, q Querier) (map[domain.Dish]int, error) {
	rows, err := q.Query(ctx, `SELECT dish, stock FROM food_stock`)
	if err != nil {
		return nil, fmt.Errorf("failed to list dish stocks: %w", err)
	}
	defer rows.Close()

	stocks := make(map[domain.Dish]int)
	for rows.Next() {
		var dish string
		var stock int
		if err := rows.Scan(&dish, &stock); err != nil {
			return nil, fmt.Errorf("failed to scan dish stock: %w", err)
		}
		stocks[domain.Dish(dish)] = stock
	}
	return stocks, nil
}

func (r *LedgerRepository) IngredientStockForUpdate(ctx context.Context, q Querier, ing domain.Ingredient) (decimal.Decimal, error) {
	var stock decimal.Decimal
	err := q.QueryRow(ctx,
		`SELECT stock FROM ingredients WHERE name = $1 FOR UPDATE`,
		string(ing),
	).Scan(&stock)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ingredient %s: %w", ing, notFoundOr(err))
	}
	return stock, nil
}

func (r *LedgerRepository) DeductIngredient(ctx context.Context, q Querier, ing domain.Ingredient, units decimal.Decimal) error {
	tag, err := q.Exec(ctx,
		`UPDATE ingredients SET stock = stock - $1 WHERE name = $2 AND stock >= $1`,
		units, string(ing),
	)
	if err != nil {
		return fmt.Errorf("failed to deduct ingredient %s: %w", ing, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ingredient %s has insufficient stock for deduction", ing)
	}
	return nil
}

func (r *LedgerRepository) SetIngredientStock(ctx context.Context, q Querier, ing domain.Ingredient, units decimal.Decimal) error {
	tag, err := q.Exec(ctx,
		`UPDATE ingredients SET stock = $1 WHERE name = $2`,
		units, string(ing),
	)
	if err != nil {
		return fmt.Errorf("failed to set ingredient stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ingredient row missing for %s", ing)
	}
	return nil
}

func (r *LedgerRepository) AddIngredientStock(ctx context.Context, q Querier, ing domain.Ingredient, units decimal.Decimal) error {
	tag, err := q.Exec(ctx,
		`UPDATE ingredients SET stock = stock + $1 WHERE name = $2`,
		units, string(ing),
	)
	if err != nil {
		return fmt.Errorf("failed to add ingredient stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ingredient row missing for %s", ing)
	}
	return nil
}

func (r *LedgerRepository) IngredientStocks(ctx context.Context, q Querier) (map[domain.Ingredient]decimal.Decimal, error) {
	rows, err := q.Query(ctx, `SELECT name, stock FROM ingredients`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	stocks := make(map[domain.Ingredient]decimal.Decimal)
	for rows.Next() {
		var name string
		var stock decimal.Decimal
		if err := rows.Scan(&name, &stock); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		stocks[domain.Ingredient(name)] = stock
	}
	return stocks, nil
}

func (r *LedgerRepository) Availability(ctx context.Context, q Querier, dish domain.Dish) (domain.Availability, error) {
	var status string
	err := q.QueryRow(ctx,
		`SELECT status FROM menu_status WHERE dish = $1`,
		string(dish),
	).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("menu status for %s: %w", dish, notFoundOr(err))
	}
	return domain.Availability(status), nil
}

func (r *LedgerRepository) SetAvailability(ctx context.Context, q Querier, dish domain.Dish, status domain.Availability) error {
	tag, err := q.Exec(ctx,
		`UPDATE menu_status SET status = $1 WHERE dish = $2`,
		string(status), string(dish),
	)
	if err != nil {
		return fmt.Errorf("failed to update menu status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menu status row missing for %s", dish)
	}
	return nil
}

func (r *LedgerRepository) Availabilities(ctx context.Context, q Querier) (map[domain.Dish]domain.Availability, error) {
	rows, err := q.Query(ctx, `SELECT dish, status FROM menu_status`)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[domain.Dish]domain.Availability)
	for rows.Next() {
		var dish, status string
		if err := rows.Scan(&dish, &status); err != nil {
			return nil, fmt.Errorf("failed to scan menu status: %w", err)
		}
		statuses[domain.Dish(dish)] = domain.Availability(status)
	}
	return statuses, nil
}
