package domain

// PaymentStatus tracks the money side of an order, independent of the
// kitchen workflow.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentServed  PaymentStatus = "Served"
)

// TrackerStatus is the order's kitchen-workflow state.
type TrackerStatus string

const (
	TrackerPending   TrackerStatus = "Pending"
	TrackerApproved  TrackerStatus = "Approved"
	TrackerPreparing TrackerStatus = "Preparing"
	TrackerCooking   TrackerStatus = "Cooking"
	TrackerReady     TrackerStatus = "Ready"
	TrackerServed    TrackerStatus = "Served"
)

var trackerTransitions = map[TrackerStatus][]TrackerStatus{
	TrackerPending:   {TrackerApproved},
	TrackerApproved:  {TrackerPreparing},
	TrackerPreparing: {TrackerCooking},
	TrackerCooking:   {TrackerReady},
	TrackerReady:     {TrackerServed},
	TrackerServed:    {},
}

// CanTransition reports whether the tracker may move from one state to
// another. Rejection is not a tracker state: a rejected order is archived
// and removed instead.
func CanTransition(from, to TrackerStatus) bool {
	for _, s := range trackerTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseTracker validates a raw tracker value.
func ParseTracker(s string) (TrackerStatus, bool) {
	switch TrackerStatus(s) {
	case TrackerPending, TrackerApproved, TrackerPreparing, TrackerCooking, TrackerReady, TrackerServed:
		return TrackerStatus(s), true
	}
	return "", false
}

// Availability is the menu status of a dish. Stock hitting zero forces
// NotAvailable; re-enabling after a replenishment is a manual staff action.
type Availability string

const (
	Available    Availability = "Available"
	NotAvailable Availability = "Not Available"
)

// ParseAvailability validates a raw menu status value.
func ParseAvailability(s string) (Availability, bool) {
	switch Availability(s) {
	case Available, NotAvailable:
		return Availability(s), true
	}
	return "", false
}

// Role is the caller's access level, supplied by the session layer.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleCustomer  Role = "customer"
	RoleStaff     Role = "staff"
	RoleAdmin     Role = "admin"
)

// Actor identifies who is performing an operation. Core operations take it
// explicitly; there is no ambient session state.
type Actor struct {
	UserID   int
	Username string
	Role     Role
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsCustomer() bool {
	return a.Role == RoleCustomer
}
