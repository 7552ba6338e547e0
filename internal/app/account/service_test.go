package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leshley-eatery/silogan/internal/adapter/postgres"
	"github.com/leshley-eatery/silogan/internal/config"
	"github.com/leshley-eatery/silogan/internal/domain"
	"github.com/leshley-eatery/silogan/internal/interfaces"
)

type nopLogger struct{}

func (nopLogger) Info(action, message, requestID string, details map[string]interface{})             {}
func (nopLogger) Warn(action, message, requestID string, details map[string]interface{})             {}
func (nopLogger) Debug(action, message, requestID string, details map[string]interface{})            {}
func (nopLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {}

type fakeDB struct{}

func (fakeDB) Query(ctx context.Context, sql string, args ...any) (postgres.Rows, error) {
	return nil, errors.New("not implemented")
}
func (fakeDB) QueryRow(ctx context.Context, sql string, args ...any) postgres.Row { return nil }
func (fakeDB) Exec(ctx context.Context, sql string, args ...any) (postgres.CommandTag, error) {
	return nil, errors.New("not implemented")
}
func (fakeDB) Begin(ctx context.Context) (postgres.Tx, error) {
	return nil, errors.New("not implemented")
}
func (fakeDB) Close() {}

type fakeUsers struct {
	nextID int
	users  map[int]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{nextID: 1, users: make(map[int]*domain.User)}
}

func (r *fakeUsers) Create(ctx context.Context, q postgres.Querier, u *domain.User) error {
	u.ID = r.nextID
	r.nextID++
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUsers) FindByID(ctx context.Context, q postgres.Querier, id int) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUsers) FindByUsername(ctx context.Context, q postgres.Querier, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *fakeUsers) ListByRole(ctx context.Context, q postgres.Querier, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUsers) StaffAndAdmins(ctx context.Context, q postgres.Querier) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == domain.RoleStaff || u.Role == domain.RoleAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUsers) SetBanned(ctx context.Context, q postgres.Querier, id int, banned bool) error {
	u, ok := r.users[id]
	if !ok {
		return postgres.ErrNotFound
	}
	u.Banned = banned
	return nil
}

func (r *fakeUsers) TouchLogin(ctx context.Context, q postgres.Querier, id int, at time.Time) error {
	return nil
}

func (r *fakeUsers) TouchLogout(ctx context.Context, q postgres.Querier, id int, at time.Time) error {
	return nil
}

func newTestService() (*Service, *fakeUsers) {
	users := newFakeUsers()
	cfg := config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1}
	return NewService(fakeDB{}, users, cfg, nopLogger{}), users
}

func register(t *testing.T, svc *Service, username string) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), interfaces.RegisterCommand{
		Username: username,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return u
}

func TestRegisterCreatesCustomer(t *testing.T) {
	svc, _ := newTestService()

	u := register(t, svc, "ana")
	if u.Role != domain.RoleCustomer {
		t.Errorf("role = %s, want customer", u.Role)
	}
	if u.PasswordHash == "secret123" || u.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if u.CreatedAt.IsZero() {
		t.Error("registration must stamp the account creation time")
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "ana")

	_, err := svc.Register(context.Background(), interfaces.RegisterCommand{
		Username: "ana",
		Password: "another123",
	})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), interfaces.RegisterCommand{
		Username: "ana",
		Password: "abc",
	})
	if err == nil {
		t.Error("short password should be rejected")
	}
}

func TestLoginAndAuthenticateRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "ana")

	session, err := svc.Login(context.Background(), "ana", "secret123", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("session token is empty")
	}

	actor, err := svc.Authenticate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if actor.Username != "ana" || actor.Role != domain.RoleCustomer {
		t.Errorf("actor = %+v", actor)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "ana")

	_, err := svc.Login(context.Background(), "ana", "wrong", domain.RoleCustomer)
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLoginRejectsWrongRoleSurface(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "ana")

	// A customer cannot mint a token from the staff login.
	_, err := svc.Login(context.Background(), "ana", "secret123", domain.RoleStaff)
	var authz *domain.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}

func TestLoginRejectsBannedUser(t *testing.T) {
	svc, users := newTestService()
	u := register(t, svc, "ana")
	users.users[u.ID].Banned = true

	_, err := svc.Login(context.Background(), "ana", "secret123", domain.RoleCustomer)
	var authz *domain.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}

func TestAuthenticateRejectsBannedUser(t *testing.T) {
	svc, users := newTestService()
	u := register(t, svc, "ana")

	session, err := svc.Login(context.Background(), "ana", "secret123", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Ban after the token was issued; the token must stop working.
	users.users[u.ID].Banned = true

	if _, err := svc.Authenticate(context.Background(), session.Token); err == nil {
		t.Error("banned user's token should be rejected")
	}
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Authenticate(context.Background(), "not-a-jwt"); err == nil {
		t.Error("garbage token should be rejected")
	}
}

func TestListCustomersRequiresAdmin(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc, "ana")

	staffActor := domain.Actor{UserID: 2, Role: domain.RoleStaff}
	if _, err := svc.ListCustomers(context.Background(), staffActor); err == nil {
		t.Error("staff should not list customers")
	}

	adminActor := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	customers, err := svc.ListCustomers(context.Background(), adminActor)
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	if len(customers) != 1 {
		t.Errorf("got %d customers, want 1", len(customers))
	}
}

func TestSetBannedOnlyTargetsCustomers(t *testing.T) {
	svc, users := newTestService()
	u := register(t, svc, "ana")
	adminActor := domain.Actor{UserID: 99, Username: "admin", Role: domain.RoleAdmin}

	if err := svc.SetBanned(context.Background(), adminActor, u.ID, true); err != nil {
		t.Fatalf("SetBanned: %v", err)
	}
	if !users.users[u.ID].Banned {
		t.Error("user was not banned")
	}

	// Seed a staff account and confirm it cannot be banned.
	staffUser := &domain.User{Username: "cathy", Role: domain.RoleStaff}
	users.Create(context.Background(), nil, staffUser)

	if err := svc.SetBanned(context.Background(), adminActor, staffUser.ID, true); err == nil {
		t.Error("staff accounts must not be bannable")
	}
}
