package postgres

import (
	"context"
	"fmt"

	"github.com/leshley-eatery/silogan/internal/domain"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

const orderColumns = `id, user_id, customer_name, customer_contact, dish, quantity, price,
	payment_status, tracker, image_path, ordered_at, served_at`

func (r *OrderRepository) Create(ctx context.Context, q Querier, order *domain.Order) error {
	err := q.QueryRow(ctx,
		`INSERT INTO orders (user_id, customer_name, customer_contact, dish, quantity, price,
		                     payment_status, tracker, image_path, ordered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		order.UserID, order.CustomerName, order.CustomerContact, string(order.Dish),
		order.Quantity, order.Price, string(order.PaymentStatus), string(order.Tracker),
		order.ImagePath, order.OrderedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, q Querier, id int) (*domain.Order, error) {
	row := q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, notFoundOr(err))
	}
	return order, nil
}

// FindByIDForUpdate locks the order row for the rest of the transaction, so
// a concurrent approval, rejection or tracker change on the same order waits
// and then sees the committed state instead of a stale snapshot.
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, q Querier, id int) (*domain.Order, error) {
	row := q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, notFoundOr(err))
	}
	return order, nil
}

func (r *OrderRepository) Update(ctx context.Context, q Querier, order *domain.Order) error {
	tag, err := q.Exec(ctx,
		`UPDATE orders SET payment_status = $1, tracker = $2, served_at = $3 WHERE id = $4`,
		string(order.PaymentStatus), string(order.Tracker), order.ServedAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", order.ID)
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, q Querier, id int) error {
	tag, err := q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", id)
	}
	return nil
}

func (r *OrderRepository) Archive(ctx context.Context, q Querier, rejected *domain.RejectedOrder) error {
	err := q.QueryRow(ctx,
		`INSERT INTO rejected_orders (original_order_id, user_id, customer_name, customer_contact,
		                              dish, quantity, price, image_path, ordered_at,
		                              rejected_by, rejected_at, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		rejected.OriginalOrderID, rejected.UserID, rejected.CustomerName, rejected.CustomerContact,
		string(rejected.Dish), rejected.Quantity, rejected.Price, rejected.ImagePath,
		rejected.OrderedAt, rejected.RejectedBy, rejected.RejectedAt, rejected.Reason,
	).Scan(&rejected.ID)
	if err != nil {
		return fmt.Errorf("failed to archive rejected order: %w", err)
	}
	return nil
}

func (r *OrderRepository) ListAll(ctx context.Context, q Querier) ([]*domain.Order, error) {
	rows, err := q.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY ordered_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return collectOrders(rows)
}

func (r *OrderRepository) ListByUser(ctx context.Context, q Querier, userID int) ([]*domain.Order, error) {
	rows, err := q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY ordered_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return collectOrders(rows)
}

func (r *OrderRepository) ListByTracker(ctx context.Context, q Querier, trackers ...domain.TrackerStatus) ([]*domain.Order, error) {
	names := make([]string, len(trackers))
	for i, t := range trackers {
		names[i] = string(t)
	}
	rows, err := q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE tracker = ANY($1) AND payment_status != 'Served'
		 ORDER BY ordered_at ASC`,
		names,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by tracker: %w", err)
	}
	return collectOrders(rows)
}

func (r *OrderRepository) ListServed(ctx context.Context, q Querier) ([]*domain.Order, error) {
	rows, err := q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE payment_status = 'Served' ORDER BY ordered_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list served orders: %w", err)
	}
	return collectOrders(rows)
}

func (r *OrderRepository) ListRejected(ctx context.Context, q Querier) ([]*domain.RejectedOrder, error) {
	rows, err := q.Query(ctx,
		`SELECT id, original_order_id, user_id, customer_name, customer_contact, dish, quantity,
		        price, image_path, ordered_at, rejected_by, rejected_at, reason
		 FROM rejected_orders ORDER BY rejected_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rejected orders: %w", err)
	}
	defer rows.Close()

	var rejected []*domain.RejectedOrder
	for rows.Next() {
		var ro domain.RejectedOrder
		var dish string
		if err := rows.Scan(
			&ro.ID, &ro.OriginalOrderID, &ro.UserID, &ro.CustomerName, &ro.CustomerContact,
			&dish, &ro.Quantity, &ro.Price, &ro.ImagePath, &ro.OrderedAt,
			&ro.RejectedBy, &ro.RejectedAt, &ro.Reason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rejected order: %w", err)
		}
		ro.Dish = domain.Dish(dish)
		rejected = append(rejected, &ro)
	}
	return rejected, nil
}

func (r *OrderRepository) ReadyQuantity(ctx context.Context, q Querier, userID int, dish domain.Dish) (int, error) {
	var total int
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM orders
		 WHERE user_id = $1 AND dish = $2 AND tracker = 'Ready' AND payment_status = 'Paid'`,
		userID, string(dish),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ready quantity: %w", err)
	}
	return total, nil
}

func (r *OrderRepository) HasServed(ctx context.Context, q Querier, userID int, dish domain.Dish) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE user_id = $1 AND dish = $2 AND payment_status = 'Served'
		)`,
		userID, string(dish),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check served orders: %w", err)
	}
	return exists, nil
}

func scanOrder(row Row) (*domain.Order, error) {
	var o domain.Order
	var dish, payment, tracker string
	if err := row.Scan(
		&o.ID, &o.UserID, &o.CustomerName, &o.CustomerContact, &dish, &o.Quantity, &o.Price,
		&payment, &tracker, &o.ImagePath, &o.OrderedAt, &o.ServedAt,
	); err != nil {
		return nil, err
	}
	o.Dish = domain.Dish(dish)
	o.PaymentStatus = domain.PaymentStatus(payment)
	o.Tracker = domain.TrackerStatus(tracker)
	return &o, nil
}

func collectOrders(rows Rows) ([]*domain.Order, error) {
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rowsAsRow{rows})
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// rowsAsRow lets scanOrder serve both QueryRow and Query results.
type rowsAsRow struct {
	rows Rows
}

func (r rowsAsRow) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}
