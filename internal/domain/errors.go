package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError is a malformed input, rejected before the store is
// touched. Safe to retry after correction.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// AuthorizationError is an actor lacking the required role, rejected before
// any state inspection.
type AuthorizationError struct {
	Actor    Actor
	Required string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %s is not allowed: requires %s", e.Actor.Role, e.Required)
}

// Shortfall is a single insufficient line inside an InsufficiencyError.
// Required and Available are in servings for ingredients, whole units for
// dish stock. Reason is set instead when the line failed for a non-numeric
// cause (not on the menu, no capacity defined).
type Shortfall struct {
	Name      string
	Required  decimal.Decimal
	Available decimal.Decimal
	Reason    string
}

func (s Shortfall) String() string {
	if s.Reason != "" {
		return fmt.Sprintf("%s (%s)", s.Name, s.Reason)
	}
	return fmt.Sprintf("%s (need %s, have %s)",
		s.Name, s.Required.StringFixed(1), s.Available.StringFixed(1))
}

// InsufficiencyError is a business-rule failure: required resources exceed
// available resources. It carries every insufficient line, not just the
// first, and is never partially applied.
type InsufficiencyError struct {
	Items []Shortfall
}

func (e *InsufficiencyError) Error() string {
	lines := make([]string, len(e.Items))
	for i, item := range e.Items {
		lines[i] = item.String()
	}
	return "insufficient: " + strings.Join(lines, ", ")
}

// PersistenceError wraps a store/transaction failure. The enclosing
// transaction has been rolled back; the operation is retryable.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
