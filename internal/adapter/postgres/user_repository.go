package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/leshley-eatery/silogan/internal/domain"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const userColumns = `id, username, password_hash, email, phone, address, role, is_banned,
	created_at, last_login, last_logout`

func (r *UserRepository) Create(ctx context.Context, q Querier, u *domain.User) error {
	err := q.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, email, phone, address, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		u.Username, u.PasswordHash, u.Email, u.Phone, u.Address, string(u.Role), u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, q Querier, id int) (*domain.User, error) {
	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, notFoundOr(err))
	}
	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, q Querier, username string) (*domain.User, error) {
	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, notFoundOr(err))
	}
	return user, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, q Querier, role domain.Role) ([]*domain.User, error) {
	rows, err := q.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY username`,
		string(role),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) StaffAndAdmins(ctx context.Context, q Querier) ([]*domain.User, error) {
	rows, err := q.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role IN ('staff', 'admin') ORDER BY username`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) SetBanned(ctx context.Context, q Querier, id int, banned bool) error {
	tag, err := q.Exec(ctx, `UPDATE users SET is_banned = $1 WHERE id = $2`, banned, id)
	if err != nil {
		return fmt.Errorf("failed to update ban flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

func (r *UserRepository) TouchLogin(ctx context.Context, q Querier, id int, at time.Time) error {
	_, err := q.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

func (r *UserRepository) TouchLogout(ctx context.Context, q Querier, id int, at time.Time) error {
	_, err := q.Exec(ctx, `UPDATE users SET last_logout = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to record logout: %w", err)
	}
	return nil
}

func scanUser(row Row) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Phone, &u.Address, &role,
		&u.Banned, &u.CreatedAt, &u.LastLogin, &u.LastLogout,
	); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func collectUsers(rows Rows) ([]*domain.User, error) {
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rowsAsRow{rows})
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}
