package postgres

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/leshley-eatery/silogan/internal/domain"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'customer',
		is_banned BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_login TIMESTAMPTZ,
		last_logout TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		user_id INT REFERENCES users(id),
		customer_name TEXT NOT NULL DEFAULT '',
		customer_contact TEXT NOT NULL DEFAULT '',
		dish TEXT NOT NULL,
		quantity INT NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'Pending',
		tracker TEXT NOT NULL DEFAULT 'Pending',
		image_path TEXT,
		ordered_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		served_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS rejected_orders (
		id SERIAL PRIMARY KEY,
		original_order_id INT NOT NULL,
		user_id INT,
		customer_name TEXT NOT NULL DEFAULT '',
		customer_contact TEXT NOT NULL DEFAULT '',
		dish TEXT NOT NULL,
		quantity INT NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		image_path TEXT,
		ordered_at TIMESTAMPTZ,
		rejected_by TEXT NOT NULL,
		rejected_at TIMESTAMPTZ NOT NULL,
		reason TEXT NOT NULL DEFAULT 'No reason provided'
	)`,
	`CREATE TABLE IF NOT EXISTS order_notifications (
		id SERIAL PRIMARY KEY,
		order_id INT,
		user_id INT NOT NULL,
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_status (
		dish TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'Available'
	)`,
	`CREATE TABLE IF NOT EXISTS food_stock (
		dish TEXT PRIMARY KEY,
		stock INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ingredients (
		name TEXT PRIMARY KEY,
		stock NUMERIC(12,4) NOT NULL DEFAULT 0,
		unit TEXT NOT NULL DEFAULT 'pcs'
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id SERIAL PRIMARY KEY,
		dish TEXT NOT NULL,
		user_id INT NOT NULL,
		score INT NOT NULL,
		UNIQUE (dish, user_id)
	)`,
}

var defaultDishStock = map[domain.Dish]int{
	domain.DishTapsilog:    40,
	domain.DishLongsilog:   30,
	domain.DishMalingSilog: 25,
	domain.DishHotsilog:    20,
	domain.DishSilog:       35,
	domain.DishBangusSilog: 15,
	domain.DishPorksilog:   28,
}

var defaultIngredientStock = map[domain.Ingredient]int{
	domain.IngredientPork:       50,
	domain.IngredientHotdog:     3,
	domain.IngredientChicken:    50,
	domain.IngredientMaling:     10,
	domain.IngredientTapa:       40,
	domain.IngredientLongganisa: 3,
	domain.IngredientBangus:     15,
	domain.IngredientEgg:        3,
	domain.IngredientRice:       3,
	domain.IngredientGarlic:     3,
	domain.IngredientOil:        3,
	domain.IngredientKetchup:    3,
}

// EnsureSchema creates the tables and seeds the reference rows (dish stock,
// ingredient stock, menu status, admin account). Seeding uses ON CONFLICT DO
// NOTHING so an existing database is never overwritten.
func EnsureSchema(ctx context.Context, db DB, catalog *domain.Catalog, adminPassword string) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	for _, dish := range catalog.Dishes() {
		if _, err := db.Exec(ctx,
			`INSERT INTO food_stock (dish, stock) VALUES ($1, $2) ON CONFLICT (dish) DO NOTHING`,
			string(dish), defaultDishStock[dish],
		); err != nil {
			return fmt.Errorf("failed to seed food stock: %w", err)
		}
		if _, err := db.Exec(ctx,
			`INSERT INTO menu_status (dish, status) VALUES ($1, $2) ON CONFLICT (dish) DO NOTHING`,
			string(dish), string(domain.Available),
		); err != nil {
			return fmt.Errorf("failed to seed menu status: %w", err)
		}
	}

	for _, ing := range catalog.Ingredients() {
		if _, err := db.Exec(ctx,
			`INSERT INTO ingredients (name, stock, unit) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`,
			string(ing), defaultIngredientStock[ing], catalog.UnitLabels[ing],
		); err != nil {
			return fmt.Errorf("failed to seed ingredients: %w", err)
		}
	}

	if adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		if _, err := db.Exec(ctx,
			`INSERT INTO users (username, password_hash, role, created_at)
			 VALUES ($1, $2, $3, $4) ON CONFLICT (username) DO NOTHING`,
			"admin", string(hash), string(domain.RoleAdmin), time.Now(),
		); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
	}

	return nil
}
