package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
	"github.com/ramzez/hermes-travel/backend/internal/repo"
)

func TestUserRepo_GetByEmail(t *testing.T) {
	tx := beginTx(t)
	userID := seedUser(t, tx, "ada@example.com")

	got, err := repo.NewUserRepo(tx).GetByEmail(context.Background(), "ada@example.com")

	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	tx := beginTx(t)

	_, err := repo.NewUserRepo(tx).GetByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_PreferredCurrency(t *testing.T) {
	tx := beginTx(t)
	ctx := context.Background()
	userID := seedUser(t, tx, "currency@example.com")

	_, err := tx.Exec(ctx,
		`INSERT INTO user_preferences (user_id, preferred_currency) VALUES ($1, $2)`,
		userID, "EUR")
	require.NoError(t, err)

	currency, err := repo.NewUserRepo(tx).PreferredCurrency(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, "EUR", currency)
}

func TestUserRepo_PreferredCurrency_NoPreferenceRow(t *testing.T) {
	tx := beginTx(t)
	userID := seedUser(t, tx, "no-prefs@example.com")

	currency, err := repo.NewUserRepo(tx).PreferredCurrency(context.Background(), userID)

	require.NoError(t, err)
	assert.Empty(t, currency)
}
