package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/leshley-eatery/silogan/internal/adapter/logger"
	"github.com/leshley-eatery/silogan/internal/adapter/postgres"
	"github.com/leshley-eatery/silogan/internal/config"
	"github.com/leshley-eatery/silogan/internal/domain"
	"github.com/leshley-eatery/silogan/internal/interfaces"
)

const minPasswordLength = 6

// Claims is the JWT payload for a signed-in account.
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service handles registration, login and token verification. Tokens are
// HS256 JWTs; the user row is re-read on every Authenticate so a ban takes
// effect immediately, not at token expiry.
type Service struct {
	db     postgres.DB
	users  interfaces.UserRepository
	secret []byte
	ttl    time.Duration
	logger logger.Logger
}

func NewService(db postgres.DB, users interfaces.UserRepository, cfg config.AuthConfig, lgr logger.Logger) *Service {
	return &Service{
		db:     db,
		users:  users,
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.TokenTTLHours) * time.Hour,
		logger: lgr,
	}
}

// Register creates a customer account. Staff and admin accounts are seeded
// or promoted out of band.
func (s *Service) Register(ctx context.Context, cmd interfaces.RegisterCommand) (*domain.User, error) {
	if cmd.Username == "" {
		return nil, &domain.ValidationError{Msg: "username is required"}
	}
	if len(cmd.Password) < minPasswordLength {
		return nil, &domain.ValidationError{Msg: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}

	if _, err := s.users.FindByUsername(ctx, s.db, cmd.Username); err == nil {
		return nil, &domain.ValidationError{Msg: "username is already taken"}
	} else if !errors.Is(err, postgres.ErrNotFound) {
		return nil, &domain.PersistenceError{Op: "check username", Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "hash password", Err: err}
	}

	u := &domain.User{
		Username:     cmd.Username,
		PasswordHash: string(hash),
		Email:        cmd.Email,
		Phone:        cmd.Phone,
		Address:      cmd.Address,
		Role:         domain.RoleCustomer,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, s.db, u); err != nil {
		return nil, &domain.PersistenceError{Op: "create user", Err: err}
	}

	s.logger.Info("user_registered", fmt.Sprintf("customer %s registered", u.Username), "", map[string]interface{}{
		"user_id": u.ID,
	})
	return u, nil
}

// Login verifies the credentials against one login surface: the customer,
// staff and admin entry points each pass their required role, and an
// account of the wrong role is refused even with the right password.
func (s *Service) Login(ctx context.Context, username, password string, requiredRole domain.Role) (*interfaces.Session, error) {
	u, err := s.users.FindByUsername(ctx, s.db, username)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, &domain.ValidationError{Msg: "invalid username or password"}
		}
		return nil, &domain.PersistenceError{Op: "find user", Err: err}
	}
	if u.Role != requiredRole {
		return nil, &domain.AuthorizationError{
			Actor:    domain.Actor{UserID: u.ID, Username: u.Username, Role: u.Role},
			Required: string(requiredRole),
		}
	}
	if u.Banned {
		return nil, &domain.AuthorizationError{
			Actor:    domain.Actor{UserID: u.ID, Username: u.Username, Role: u.Role},
			Required: "an account in good standing",
		}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, &domain.ValidationError{Msg: "invalid username or password"}
	}

	now := time.Now()
	expires := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "sign token", Err: err}
	}

	if err := s.users.TouchLogin(ctx, s.db, u.ID, now); err != nil {
		s.logger.Error("login_touch_failed", "failed to record login time", "", map[string]interface{}{"user_id": u.ID}, err)
	}

	s.logger.Info("user_logged_in", fmt.Sprintf("%s logged in as %s", u.Username, u.Role), "", map[string]interface{}{
		"user_id": u.ID,
	})
	return &interfaces.Session{Token: signed, ExpiresAt: expires, User: u}, nil
}

// Logout records the logout time. The token itself stays valid until
// expiry; there is no server-side revocation list.
func (s *Service) Logout(ctx context.Context, actor domain.Actor) error {
	if actor.Role == domain.RoleAnonymous {
		return nil
	}
	if err := s.users.TouchLogout(ctx, s.db, actor.UserID, time.Now()); err != nil {
		return &domain.PersistenceError{Op: "record logout", Err: err}
	}
	return nil
}

// Authenticate resolves a bearer token into an actor.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (domain.Actor, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, &domain.ValidationError{Msg: "invalid or expired token"}
	}

	u, err := s.users.FindByID(ctx, s.db, claims.UserID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return domain.Actor{}, &domain.ValidationError{Msg: "invalid or expired token"}
		}
		return domain.Actor{}, &domain.PersistenceError{Op: "find user", Err: err}
	}
	if u.Banned {
		return domain.Actor{}, &domain.AuthorizationError{
			Actor:    domain.Actor{UserID: u.ID, Username: u.Username, Role: u.Role},
			Required: "an account in good standing",
		}
	}

	return domain.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// ListCustomers returns every customer account for the admin user screen.
func (s *Service) ListCustomers(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, &domain.AuthorizationError{Actor: actor, Required: "admin"}
	}
	users, err := s.users.ListByRole(ctx, s.db, domain.RoleCustomer)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list customers", Err: err}
	}
	return users, nil
}

// SetBanned bans or unbans a customer account. A banned user's existing
// tokens stop working on the next Authenticate.
func (s *Service) SetBanned(ctx context.Context, actor domain.Actor, userID int, banned bool) error {
	if !actor.IsAdmin() {
		return &domain.AuthorizationError{Actor: actor, Required: "admin"}
	}
	target, err := s.users.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return &domain.ValidationError{Msg: fmt.Sprintf("no user with id %d", userID)}
		}
		return &domain.PersistenceError{Op: "find user", Err: err}
	}
	if target.Role != domain.RoleCustomer {
		return &domain.ValidationError{Msg: "only customer accounts can be banned"}
	}

	if err := s.users.SetBanned(ctx, s.db, userID, banned); err != nil {
		return &domain.PersistenceError{Op: "update ban flag", Err: err}
	}

	s.logger.Info("user_ban_updated", fmt.Sprintf("%s banned=%v by %s", target.Username, banned, actor.Username), "", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
