package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

// UserRepo resolves managed-identity accounts to application user rows and
// reads their stored preferences. All identity writes happen upstream in
// the managed platform; this repo is read-only.
type UserRepo interface {
	// GetByEmail retrieves the user row for an account email.
	// Returns domain.ErrNotFound when no row matches.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// PreferredCurrency returns the user's preferred currency code, or ""
	// when the user has no stored preference. Missing preference rows are
	// not an error.
	PreferredCurrency(ctx context.Context, userID int64) (string, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `
		SELECT user_id, email, name, created_at
		FROM users
		WHERE email = @email`

	var (
		u    domain.User
		name pgtype.Text
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}).Scan(&u.ID, &u.Email, &name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	u.Name = name.String

	return u, nil
}

func (r *pgUserRepo) PreferredCurrency(ctx context.Context, userID int64) (string, error) {
	const q = `
		SELECT preferred_currency
		FROM user_preferences
		WHERE user_id = @user_id`

	var currency pgtype.Text
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}).Scan(&currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("repo.UserRepo.PreferredCurrency: %w", err)
	}

	return currency.String, nil
}
