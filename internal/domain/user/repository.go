package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailByID(ctx context.Context, id uuid.UUID) (string, error)
	NameByID(ctx context.Context, id uuid.UUID) (string, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name string, aboutMe *string) error
	List(ctx context.Context, offset, limit int) ([]*User, int, error)
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error
}

type repository struct {
	db *sqlx.DB
}

const userSelectColumns = `
	id, email, password_hash, name, role, about_me, banned, created_at, updated_at
`

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO users (id, email, password_hash, name, role, about_me)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.AboutMe)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("%w: create user", ErrInternal)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	err := r.db.GetContext(ctx2, &u, `SELECT `+userSelectColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get user", ErrInternal)
	}

	return &u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	err := r.db.GetContext(ctx2, &u, `SELECT `+userSelectColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get user by email", ErrInternal)
	}

	return &u, nil
}

func (r *repository) EmailByID(ctx context.Context, id uuid.UUID) (string, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var email string
	err := r.db.GetContext(ctx2, &email, `SELECT email FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: get user email", ErrInternal)
	}

	return email, nil
}

func (r *repository) NameByID(ctx context.Context, id uuid.UUID) (string, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var name string
	err := r.db.GetContext(ctx2, &name, `SELECT name FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: get user name", ErrInternal)
	}

	return name, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := r.db.GetContext(ctx2, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("%w: check email", ErrInternal)
	}

	return exists, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id uuid.UUID, name string, aboutMe *string) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE users
		SET name = $2, about_me = COALESCE($3, about_me), updated_at = NOW()
		WHERE id = $1
	`, id, name, aboutMe)
	if err != nil {
		return fmt.Errorf("%w: update profile", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *repository) List(ctx context.Context, offset, limit int) ([]*User, int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	if err := r.db.GetContext(ctx2, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, fmt.Errorf("%w: count users", ErrInternal)
	}

	if limit <= 0 {
		limit = 20
	}
	users := make([]*User, 0)
	err := r.db.SelectContext(ctx2, &users, `
		SELECT `+userSelectColumns+`
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list users", ErrInternal)
	}

	return users, total, nil
}

func (r *repository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE users SET banned = $2, updated_at = NOW() WHERE id = $1
	`, id, banned)
	if err != nil {
		return fmt.Errorf("%w: set banned", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
