package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leshley-eatery/silogan/internal/adapter/logger"
	"github.com/leshley-eatery/silogan/internal/adapter/postgres"
	"github.com/leshley-eatery/silogan/internal/domain"
	"github.com/leshley-eatery/silogan/internal/interfaces"
)

// lowStockThreshold is the dish-stock level at or below which every staff
// and admin account gets an alert after an approval.
const lowStockThreshold = 5

// Service runs the order workflow: placement, staff approval or rejection,
// tracker progression and serving. Each operation is one transaction;
// notifications are written and published only after the command commits.
type Service struct {
	db            postgres.DB
	orders        interfaces.OrderRepository
	ledger        interfaces.LedgerRepository
	users         interfaces.UserRepository
	notifications interfaces.NotificationRepository
	publisher     interfaces.MessagePublisher
	catalog       *domain.Catalog
	logger        logger.Logger
}

func NewService(
	db postgres.DB,
	orders interfaces.OrderRepository,
	ledger interfaces.LedgerRepository,
	users interfaces.UserRepository,
	notifications interfaces.NotificationRepository,
	publisher interfaces.MessagePublisher,
	catalog *domain.Catalog,
	lgr logger.Logger,
) *Service {
	return &Service{
		db:            db,
		orders:        orders,
		ledger:        ledger,
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		catalog:       catalog,
		logger:        lgr,
	}
}

// PlaceOrder submits one or more dish lines as pending orders. The whole
// submission is checked against menu availability and recorded dish stock
// first: if any line fails, the error lists every failing line and nothing
// is created.
func (s *Service) PlaceOrder(ctx context.Context, actor domain.Actor, cmd interfaces.PlaceOrderCommand) ([]*domain.Order, error) {
	if actor.Role == domain.RoleAnonymous {
		return nil, &domain.AuthorizationError{Actor: actor, Required: "a signed-in account"}
	}
	if len(cmd.Lines) == 0 {
		return nil, &domain.ValidationError{Msg: "order must contain at least one dish"}
	}
	if cmd.CustomerName == "" {
		return nil, &domain.ValidationError{Msg: "customer name is required"}
	}

	type line struct {
		dish     domain.Dish
		quantity int
	}
	lines := make([]line, 0, len(cmd.Lines))
	for _, l := range cmd.Lines {
		dish, ok := s.catalog.ParseDish(l.Dish)
		if !ok {
			return nil, &domain.ValidationError{Msg: fmt.Sprintf("unknown dish: %s", l.Dish)}
		}
		if l.Quantity <= 0 {
			return nil, &domain.ValidationError{Msg: fmt.Sprintf("quantity for %s must be a positive integer", dish)}
		}
		lines = append(lines, line{dish: dish, quantity: l.Quantity})
	}

	var created []*domain.Order
	err := postgres.WithinTx(ctx, s.db, func(tx postgres.Tx) error {
		var shortfalls []domain.Shortfall
		for _, l := range lines {
			availability, err := s.ledger.Availability(ctx, tx, l.dish)
			if err != nil {
				return &domain.PersistenceError{Op: "read menu status", Err: err}
			}
			if availability != domain.Available {
				shortfalls = append(shortfalls, domain.Shortfall{
					Name:   string(l.dish),
					Reason: "Not Available",
				})
				continue
			}

			stock, err := s.ledger.DishStockForUpdate(ctx, tx, l.dish)
			if err != nil {
				return &domain.PersistenceError{Op: "read dish stock", Err: err}
			}
			if stock < l.quantity {
				shortfalls = append(shortfalls, domain.Shortfall{
					Name:      string(l.dish),
					Required:  intDecimal(l.quantity),
					Available: intDecimal(stock),
				})
			}
		}
		if len(shortfalls) > 0 {
			return &domain.InsufficiencyError{Items: shortfalls}
		}

		for _, l := range lines {
			o, err := domain.NewOrder(s.catalog, actor.UserID, cmd.CustomerName, cmd.CustomerContact, l.dish, l.quantity, cmd.ImagePath)
			if err != nil {
				return err
			}
			if err := s.orders.Create(ctx, tx, o); err != nil {
				return &domain.PersistenceError{Op: "create order", Err: err}
			}
			created = append(created, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, o := range created {
		s.logger.Info("order_placed", fmt.Sprintf("%d %s for %s", o.Quantity, o.Dish, o.CustomerName), "", map[string]interface{}{
			"order_id": o.ID,
			"user_id":  o.UserID,
		})
	}
	return created, nil
}

// Approve accepts a pending order. The order row and the dish stock row are
// both read under lock inside the transaction, so two approvals of the same
// order serialize and the loser sees Approved, not Pending. Stock is
// decremented directly; an approval never consumes
// ingredients. Stock reaching zero disables the dish on the menu. After
// commit the customer is notified, and staff get a low-stock alert when the
// remaining stock is at or below the threshold.
func (s *Service) Approve(ctx context.Context, actor domain.Actor, orderID int) (*interfaces.ApprovalResult, error) {
	if !actor.IsStaff() {
		return nil, &domain.AuthorizationError{Actor: actor, Required: "staff or admin"}
	}

	var result *interfaces.ApprovalResult
	err := postgres.WithinTx(ctx, s.db, func(tx postgres.Tx) error {
		o, err := s.orders.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return &domain.PersistenceError{Op: "find order", Err: err}
		}
		if o.Tracker != domain.TrackerPending {
			return &domain.ValidationError{Msg: fmt.Sprintf("order %d is %s, only pending orders can be approved", orderID, o.Tracker)}
		}

		stock, err := s.ledger.DishStockForUpdate(ctx, tx, o.Dish)
		if err != nil {
			return &domain.PersistenceError{Op: "read dish stock", Err: err}
		}
		if stock < o.Quantity {
			return &domain.InsufficiencyError{Items: []domain.Shortfall{{
				Name:      string(o.Dish),
				Required:  intDecimal(o.Quantity),
				Available: intDecimal(stock),
			}}}
		}

		newStock := stock - o.Quantity
		if err := s.ledger.SetDishStock(ctx, tx, o.Dish, newStock); err != nil {
			return &domain.PersistenceError{Op: "write dish stock", Err: err}
		}

		res := &interfaces.ApprovalResult{PreviousStock: stock, NewStock: newStock}
		if newStock == 0 {
			if err := s.ledger.SetAvailability(ctx, tx, o.Dish, domain.NotAvailable); err != nil {
				return &domain.PersistenceError{Op: "disable menu item", Err: err}
			}
			res.MenuDisabled = true
		}

		if err := o.TransitionTo(domain.TrackerApproved); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, tx, o); err != nil {
			return &domain.PersistenceError{Op: "update order", Err: err}
		}

		res.Order = o
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	o := result.Order
	s.notify(ctx, &o.ID, o.UserID, fmt.Sprintf("Your order of %d %s has been approved!", o.Quantity, o.Dish))
	if result.NewStock <= lowStockThreshold {
		s.alertStaff(ctx, fmt.Sprintf("LOW STOCK: %s is running low! Current stock: %d", o.Dish, result.NewStock))
	}

	s.logger.Info("order_approved", fmt.Sprintf("order %d approved by %s", o.ID, actor.Username), "", map[string]interface{}{
		"order_id":  o.ID,
		"dish":      string(o.Dish),
		"new_stock": result.NewStock,
	})
	return result, nil
}

// Reject declines a pending order: the line is snapshotted into the
// rejected archive and removed from the live table in one transaction. The
// customer is notified after commit.
func (s *Service) Reject(ctx context.Context, actor domain.Actor, orderID int, reason string) error {
	if !actor.IsStaff() {
		return &domain.AuthorizationError{Actor: actor, Required: "staff or admin"}
	}

	var rejected *domain.RejectedOrder
	err := postgres.WithinTx(ctx, s.db, func(tx postgres.Tx) error {
		o, err := s.orders.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return &domain.PersistenceError{Op: "find order", Err: err}
		}
		if o.Tracker != domain.TrackerPending {
			return &domain.ValidationError{Msg: fmt.Sprintf("order %d is %s, only pending orders can be rejected", orderID, o.Tracker)}
		}

		r := domain.ArchiveRejection(o, actor.Username, reason)
		if err := s.orders.Archive(ctx, tx, r); err != nil {
			return &domain.PersistenceError{Op: "archive rejected order", Err: err}
		}
		if err := s.orders.Delete(ctx, tx, o.ID); err != nil {
			return &domain.PersistenceError{Op: "delete order", Err: err}
		}

		rejected = r
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(ctx, &rejected.OriginalOrderID, rejected.UserID,
		fmt.Sprintf("Your order of %d %s has been rejected by staff.", rejected.Quantity, rejected.Dish))

	s.logger.Info("order_rejected", fmt.Sprintf("order %d rejected by %s", rejected.OriginalOrderID, actor.Username), "", map[string]interface{}{
		"order_id": rejected.OriginalOrderID,
		"reason":   rejected.Reason,
	})
	return nil
}

// AdvanceTracker moves an order to Preparing, Cooking or Ready. Approval
// and serving have their own operations because they carry ledger and
// terminal effects. Reaching Ready sends the customer a pickup
// notification coalesced across their ready orders of the same dish; an
// identical unread notification suppresses the new one.
func (s *Service) AdvanceTracker(ctx context.Context, actor domain.Actor, orderID int, statusName string) (*domain.Order, error) {
	if !actor.IsStaff() {
		return nil, &domain.AuthorizationError{Actor: actor, Required: "staff or admin"}
	}
	status, ok := domain.ParseTracker(statusName)
	if !ok {
		return nil, &domain.ValidationError{Msg: fmt.Sprintf("invalid tracker status: %s", statusName)}
	}
	switch status {
	case domain.TrackerPreparing, domain.TrackerCooking, domain.TrackerReady:
	default:
		return nil, &domain.ValidationError{Msg: fmt.Sprintf("tracker cannot be set to %s directly", status)}
	}

	var updated *domain.Order
	err := postgres.WithinTx(ctx, s.db, func(tx postgres.Tx) error {
		o, err := s.orders.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return &domain.PersistenceError{Op: "find order", Err: err}
		}
		if err := o.TransitionTo(status); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, tx, o); err != nil {
			return &domain.PersistenceError{Op: "update order", Err: err}
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == domain.TrackerReady {
		s.notifyReady(ctx, updated)
	}

	s.logger.Info("tracker_advanced", fmt.Sprintf("order %d moved to %s", updated.ID, status), "", map[string]interface{}{
		"order_id": updated.ID,
		"tracker":  string(status),
	})
	return updated, nil
}

// Serve hands the order over and closes it out. Serving is a counter
// action and is restricted to staff accounts, not admins.
func (s *Service) Serve(ctx context.Context, actor domain.Actor, orderID int) (*domain.Order, error) {
	if actor.Role != domain.RoleStaff {
		return nil, &domain.AuthorizationError{Actor: actor, Required: "staff"}
	}

	var served *domain.Order
	err := postgres.WithinTx(ctx, s.db, func(tx postgres.Tx) error {
		o, err := s.orders.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return &domain.PersistenceError{Op: "find order", Err: err}
		}
		if err := o.TransitionTo(domain.TrackerServed); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, tx, o); err != nil {
			return &domain.PersistenceError{Op: "update order", Err: err}
		}
		served = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, &served.ID, served.UserID,
		fmt.Sprintf("Your order of %d %s has been served! Thank you for ordering at Leshley's Eatery!", served.Quantity, served.Dish))

	s.logger.Info("order_served", fmt.Sprintf("order %d served by %s", served.ID, actor.Username), "", map[string]interface{}{
		"order_id": served.ID,
	})
	return served, nil
}

// UnreadNotifications lists the caller's unread notifications, newest
// first.
func (s *Service) UnreadNotifications(ctx context.Context, actor domain.Actor) ([]*domain.Notification, error) {
	if actor.Role == domain.RoleAnonymous {
		return nil, &domain.AuthorizationError{Actor: actor, Required: "a signed-in account"}
	}
	ns, err := s.notifications.ListUnread(ctx, s.db, actor.UserID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list notifications", Err: err}
	}
	return ns, nil
}

// MarkNotificationRead marks one of the caller's notifications read. The
// ownership check is in the query: marking someone else's notification is
// a no-op.
func (s *Service) MarkNotificationRead(ctx context.Context, actor domain.Actor, notificationID int) error {
	if actor.Role == domain.RoleAnonymous {
		return &domain.AuthorizationError{Actor: actor, Required: "a signed-in account"}
	}
	if err := s.notifications.MarkRead(ctx, s.db, notificationID, actor.UserID); err != nil {
		return &domain.PersistenceError{Op: "mark notification read", Err: err}
	}
	return nil
}

// notifyReady sends the coalesced pickup notification: one message for the
// user's total Ready quantity of the dish, skipped when an identical unread
// message already exists.
func (s *Service) notifyReady(ctx context.Context, o *domain.Order) {
	total, err := s.orders.ReadyQuantity(ctx, s.db, o.UserID, o.Dish)
	if err != nil {
		s.logger.Error("notify_failed", "failed to sum ready quantity", "", map[string]interface{}{"order_id": o.ID}, err)
		return
	}
	if total == 0 {
		total = o.Quantity
	}

	msg := fmt.Sprintf("Your %s order is ready for pickup!", o.Dish)
	if total > 1 {
		msg = fmt.Sprintf("Your order of %d %s is ready for pickup!", total, o.Dish)
	}

	exists, err := s.notifications.UnreadExists(ctx, s.db, o.UserID, msg)
	if err != nil {
		s.logger.Error("notify_failed", "failed to check for duplicate notification", "", map[string]interface{}{"order_id": o.ID}, err)
		return
	}
	if exists {
		return
	}
	s.notify(ctx, &o.ID, o.UserID, msg)
}

// notify stores a notification and fans it out over the bus. Delivery is
// fire-and-forget: failures are logged and never fail the calling
// operation.
func (s *Service) notify(ctx context.Context, orderID *int, userID int, message string) {
	n := &domain.Notification{OrderID: orderID, UserID: userID, Message: message, CreatedAt: time.Now()}
	if err := s.notifications.Create(ctx, s.db, n); err != nil {
		s.logger.Error("notify_failed", "failed to store notification", "", map[string]interface{}{"user_id": userID}, err)
		return
	}

	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishNotification(ctx, interfaces.NotificationMessage{
		OrderID:   orderID,
		UserID:    userID,
		Message:   message,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		s.logger.Error("publish_failed", "failed to publish notification", "", map[string]interface{}{"user_id": userID}, err)
	}
}

// alertStaff fans one message out to every staff and admin account.
func (s *Service) alertStaff(ctx context.Context, message string) {
	recipients, err := s.users.StaffAndAdmins(ctx, s.db)
	if err != nil {
		s.logger.Error("notify_failed", "failed to list staff recipients", "", nil, err)
		return
	}
	for _, u := range recipients {
		s.notify(ctx, nil, u.ID, message)
	}
}

func intDecimal(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
