package user

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, firstName, lastName, groupLabel, role, email, passwordHash string) (*User, error) {
	query := `
		INSERT INTO users (first_name, last_name, group_label, role, email, password_hash)
		VALUES ($1, $2, $3, $4, LOWER($5), $6)
		RETURNING id, email, password_hash, first_name, last_name, group_label, role, active, created_at
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, firstName, lastName, groupLabel, role, email, passwordHash)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// FindByEmail matches case-insensitively and only returns active users,
// so deactivated accounts simply fail to log in.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, group_label, role, active, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1) AND active = TRUE
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, group_label, role, active, created_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) CountByRole(ctx context.Context, role string) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE role = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, role)
	if err != nil {
		return 0, err
	}

	return count, nil
}
