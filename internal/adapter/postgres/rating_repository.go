package postgres

import (
	"context"
	"fmt"

	"github.com/leshley-eatery/silogan/internal/domain"
)

type RatingRepository struct{}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{}
}

func (r *RatingRepository) Rate(ctx context.Context, q Querier, rating *domain.DishRating) error {
	err := q.QueryRow(ctx,
		`INSERT INTO ratings (dish, user_id, score) VALUES ($1, $2, $3) RETURNING id`,
		string(rating.Dish), rating.UserID, rating.Score,
	).Scan(&rating.ID)
	if err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	return nil
}

func (r *RatingRepository) HasRated(ctx context.Context, q Querier, userID int, dish domain.Dish) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ratings WHERE user_id = $1 AND dish = $2)`,
		userID, string(dish),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check rating: %w", err)
	}
	return exists, nil
}

func (r *RatingRepository) Averages(ctx context.Context, q Querier) (map[domain.Dish]float64, error) {
	rows, err := q.Query(ctx, `SELECT dish, AVG(score) FROM ratings GROUP BY dish`)
	if err != nil {
		return nil, fmt.Errorf("failed to average ratings: %w", err)
	}
	defer rows.Close()

	averages := make(map[domain.Dish]float64)
	for rows.Next() {
		var dish string
		var avg float64
		if err := rows.Scan(&dish, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan rating average: %w", err)
		}
		averages[domain.Dish(dish)] = avg
	}
	return averages, nil
}
