package domain

import "testing"

func TestTrackerTransitions(t *testing.T) {
	tests := []struct {
		from TrackerStatus
		to   TrackerStatus
		want bool
	}{
		{TrackerPending, TrackerApproved, true},
		{TrackerApproved, TrackerPreparing, true},
		{TrackerPreparing, TrackerCooking, true},
		{TrackerCooking, TrackerReady, true},
		{TrackerReady, TrackerServed, true},

		{TrackerPending, TrackerReady, false},
		{TrackerPending, TrackerServed, false},
		{TrackerApproved, TrackerPending, false},
		{TrackerCooking, TrackerPreparing, false},
		{TrackerServed, TrackerReady, false},
		{TrackerServed, TrackerServed, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseTracker(t *testing.T) {
	if _, ok := ParseTracker("Cooking"); !ok {
		t.Error("Cooking should parse")
	}
	if _, ok := ParseTracker("Rejected"); ok {
		t.Error("Rejected is not a tracker state")
	}
	if _, ok := ParseTracker(""); ok {
		t.Error("empty string should not parse")
	}
}

func TestParseAvailability(t *testing.T) {
	if _, ok := ParseAvailability("Available"); !ok {
		t.Error("Available should parse")
	}
	if _, ok := ParseAvailability("Not Available"); !ok {
		t.Error("Not Available should parse")
	}
	if _, ok := ParseAvailability("Sold Out"); ok {
		t.Error("Sold Out should not parse")
	}
}

func TestActorRoles(t *testing.T) {
	staff := Actor{Role: RoleStaff}
	admin := Actor{Role: RoleAdmin}
	customer := Actor{Role: RoleCustomer}

	if !staff.IsStaff() || !admin.IsStaff() {
		t.Error("staff and admin should both pass IsStaff")
	}
	if customer.IsStaff() {
		t.Error("customer should not pass IsStaff")
	}
	if !admin.IsAdmin() || staff.IsAdmin() {
		t.Error("only admin should pass IsAdmin")
	}
}
