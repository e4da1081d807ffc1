package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	id "foundry/pkg/domain"
	"foundry/pkg/platform/sentinel"
)

func newStoredUser(t *testing.T, store *InMemoryStore, email string) *User {
	t.Helper()
	user, err := NewUser("Test User", email, "a-decent-password", id.RoleUser, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func TestInMemoryStoreEmailUniqueness(t *testing.T) {
	store := NewInMemoryStore()
	newStoredUser(t, store, "dup@example.com")

	clash, err := NewUser("Other User", "DUP@example.com", "another-password", id.RoleUser, time.Now())
	require.NoError(t, err)
	require.ErrorIs(t, store.Create(context.Background(), clash), sentinel.ErrAlreadyExists)
}

func TestInMemoryStoreLookups(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	user := newStoredUser(t, store, "lookup@example.com")

	found, err := store.FindByEmail(ctx, "Lookup@Example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	name, err := store.DisplayName(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Test User", name)

	_, err = store.FindByID(ctx, id.NewUserID())
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStoreUpdateUnknownUser(t *testing.T) {
	store := NewInMemoryStore()
	ghost, err := NewUser("Ghost User", "ghost@example.com", "a-decent-password", id.RoleUser, time.Now())
	require.NoError(t, err)
	require.ErrorIs(t, store.Update(context.Background(), ghost), sentinel.ErrNotFound)
}
