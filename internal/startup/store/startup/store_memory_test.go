package startup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foundry/internal/startup/models"
	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/sentinel"
)

func seedStartup(t *testing.T, store *InMemoryStore, name string, status models.Status, rating float64) *models.Startup {
	t.Helper()
	startup, err := models.NewStartup(id.NewUserID(), models.Registration{
		Name:         name,
		Description:  "A test listing with a description long enough to pass validation.",
		Location:     "Lisbon",
		ContactEmail: "owner@example.com",
	}, time.Now())
	require.NoError(t, err)
	startup.Status = status
	startup.Rating = rating
	require.NoError(t, store.CreateIfOwnerFree(context.Background(), startup))
	return startup
}

func TestCreateIfOwnerFree(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	first := seedStartup(t, store, "First Co", models.StatusPending, 0)

	second, err := models.NewStartup(first.OwnerID, models.Registration{
		Name:         "Second Co",
		Description:  "Another listing by the same owner, which must be rejected.",
		Location:     "Porto",
		ContactEmail: "owner@example.com",
	}, time.Now())
	require.NoError(t, err)
	require.ErrorIs(t, store.CreateIfOwnerFree(ctx, second), sentinel.ErrAlreadyExists)

	found, err := store.FindByOwner(ctx, first.OwnerID)
	require.NoError(t, err)
	require.Equal(t, first.ID, found.ID)
}

func TestSearchOrdersByRatingThenRecency(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	low := seedStartup(t, store, "Low Rated", models.StatusApproved, 3.2)
	high := seedStartup(t, store, "High Rated", models.StatusApproved, 4.8)
	seedStartup(t, store, "Hidden Pending", models.StatusPending, 5)

	results, err := store.Search(ctx, models.SearchFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, high.ID, results[0].ID)
	require.Equal(t, low.ID, results[1].ID)
}

func TestExecuteRollsBackOnValidateError(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	startup := seedStartup(t, store, "Guarded Co", models.StatusPending, 0)

	_, err := store.Execute(ctx, startup.ID,
		func(*models.Startup) error { return dErrors.New(dErrors.CodeForbidden, "not yours") },
		func(st *models.Startup) { st.Name = "Should Not Stick" },
	)
	require.Error(t, err)

	reloaded, err := store.FindByID(ctx, startup.ID)
	require.NoError(t, err)
	require.Equal(t, "Guarded Co", reloaded.Name)
}

func TestExecuteUnknownStartup(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Execute(context.Background(), id.NewStartupID(),
		func(*models.Startup) error { return nil },
		func(*models.Startup) {},
	)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}
