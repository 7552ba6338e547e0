package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a single dish line placed by a customer. A submission with
// several dishes creates one Order per line.
type Order struct {
	ID              int
	UserID          int
	CustomerName    string
	CustomerContact string
	Dish            Dish
	Quantity        int
	Price           decimal.Decimal
	PaymentStatus   PaymentStatus
	Tracker         TrackerStatus
	ImagePath       *string
	OrderedAt       time.Time
	ServedAt        *time.Time
}

// NewOrder builds a pending order line, pricing it from the catalog.
func NewOrder(catalog *Catalog, userID int, custName, custContact string, dish Dish, quantity int, imagePath *string) (*Order, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Msg: "quantity must be a positive integer"}
	}
	unitPrice, ok := catalog.Prices[dish]
	if !ok {
		return nil, &ValidationError{Msg: "unknown dish: " + string(dish)}
	}

	return &Order{
		UserID:          userID,
		CustomerName:    custName,
		CustomerContact: custContact,
		Dish:            dish,
		Quantity:        quantity,
		Price:           unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		PaymentStatus:   PaymentPending,
		Tracker:         TrackerPending,
		ImagePath:       imagePath,
		OrderedAt:       time.Now(),
	}, nil
}

// TransitionTo moves the tracker along the workflow, rejecting jumps the
// transition table does not allow.
func (o *Order) TransitionTo(to TrackerStatus) error {
	if !CanTransition(o.Tracker, to) {
		return &ValidationError{Msg: "invalid tracker transition: " + string(o.Tracker) + " -> " + string(to)}
	}
	o.Tracker = to

	switch to {
	case TrackerApproved, TrackerReady:
		o.PaymentStatus = PaymentPaid
	case TrackerServed:
		o.PaymentStatus = PaymentServed
		now := time.Now()
		o.ServedAt = &now
	}
	return nil
}

// RejectedOrder is the archival snapshot of a rejected order. It is written
// once and never mutated.
type RejectedOrder struct {
	ID              int
	OriginalOrderID int
	UserID          int
	CustomerName    string
	CustomerContact string
	Dish            Dish
	Quantity        int
	Price           decimal.Decimal
	ImagePath       *string
	OrderedAt       time.Time
	RejectedBy      string
	RejectedAt      time.Time
	Reason          string
}

// ArchiveRejection snapshots a live order into the rejected archive.
func ArchiveRejection(o *Order, rejectedBy, reason string) *RejectedOrder {
	if reason == "" {
		reason = "No reason provided"
	}
	return &RejectedOrder{
		OriginalOrderID: o.ID,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		CustomerContact: o.CustomerContact,
		Dish:            o.Dish,
		Quantity:        o.Quantity,
		Price:           o.Price,
		ImagePath:       o.ImagePath,
		OrderedAt:       o.OrderedAt,
		RejectedBy:      rejectedBy,
		RejectedAt:      time.Now(),
		Reason:          reason,
	}
}

// Notification is an unread message for a user, stored by the notification
// sink and optionally fanned out over the message bus.
type Notification struct {
	ID        int
	OrderID   *int
	UserID    int
	Message   string
	Read      bool
	CreatedAt time.Time
}

// User is an account row. Role replaces the original is_admin/is_staff
// flags.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Email        string
	Phone        string
	Address      string
	Role         Role
	Banned       bool
	CreatedAt    time.Time
	LastLogin    *time.Time
	LastLogout   *time.Time
}

// DishRating is a 1-5 score a customer gave a dish, one per customer per
// dish.
type DishRating struct {
	ID     int
	Dish   Dish
	UserID int
	Score  int
}
