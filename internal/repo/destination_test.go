package repo_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramzez/hermes-travel/backend/internal/repo"
)

func TestDestinationRepo_List(t *testing.T) {
	tx := beginTx(t)

	got, err := repo.NewDestinationRepo(tx).List(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, got, "migrations seed the catalogue")

	names := make([]string, len(got))
	for i, d := range got {
		names[i] = d.Name
		assert.NotZero(t, d.ID)
		assert.NotEmpty(t, d.Country)
	}
	assert.True(t, sort.StringsAreSorted(names), "catalogue is ordered by name")
	assert.Contains(t, names, "Kyoto")
}
