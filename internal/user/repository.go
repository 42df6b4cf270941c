package user

import (
	"context"
	"database/sql"
	"errors"

	"fuelease-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// CreateIfAbsent inserts the user unless the email or phone is taken.
	CreateIfAbsent(ctx context.Context, u *User) (created bool, err error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateIfAbsent(ctx context.Context, u *User) (bool, error) {
	log := logger.FromCtx(ctx)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (full_name, email, phone_number, hashed_password, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
		RETURNING id, created_at, updated_at
	`,
		u.FullName,
		u.Email,
		u.PhoneNumber,
		u.HashedPassword,
		u.Role,
		u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Error("db: failed to insert user",
			zap.String("email", u.Email),
			zap.Error(err),
		)
		return false, err
	}

	return true, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, phone_number, hashed_password, role, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PhoneNumber,
		&u.HashedPassword,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}
