package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, name, email, password, code string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	MarkVerified(ctx context.Context, id uint) error
	SetVerificationCode(ctx context.Context, id uint, code string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, name, email, password, role, is_verified, verification_code, verification_expires_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role,
		&u.IsVerified, &u.VerificationCode, &u.VerificationExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) Create(ctx context.Context, name, email, password, code string) (*User, error) {
	log := logger.FromCtx(ctx)

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, verification_code, verification_expires_at)
		VALUES ($1, $2, $3, $4, NOW() + INTERVAL '24 hours')
		RETURNING `+userColumns,
		name, email, password, code,
	)

	u, err := scanUser(row)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return nil, ErrEmailExists
		}
		log.Error("db: failed to insert user",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *repository) MarkVerified(ctx context.Context, id uint) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET is_verified = true, verification_code = NULL,
		    verification_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}
	return nil
}

func (r *repository) SetVerificationCode(ctx context.Context, id uint, code string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET verification_code = $2,
		    verification_expires_at = NOW() + INTERVAL '24 hours',
		    updated_at = NOW()
		WHERE id = $1`,
		id, code,
	)
	if err != nil {
		return fmt.Errorf("set verification code: %w", err)
	}
	return nil
}
