package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound marks a single-row lookup that matched nothing, so callers
// can distinguish a missing row from a store failure.
var ErrNotFound = errors.New("not found")

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
