package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/errors"
	"github.com/johnyfernandes/Shlf-Backend/internal/store"
)

func TestCollectionService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	svc := env.collectionService()
	ctx := context.Background()
	u := env.createUser(t, "alice@example.com", "alice")

	collection, err := svc.CreateCollection(ctx, u.ID, CreateCollectionRequest{Name: "Favorites"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCollectionIcon, collection.Icon)
	assert.Equal(t, domain.DefaultCollectionColor, collection.Color)
	assert.Empty(t, collection.Books)
}

func TestCollectionService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.collectionService()
	ctx := context.Background()
	u := env.createUser(t, "alice@example.com", "alice")

	_, err := svc.CreateCollection(ctx, u.ID, CreateCollectionRequest{})
	var verr *errors.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, errors.CodeValidation, verr.Code)
}

func TestCollectionService_AddBook_OwnershipChecks(t *testing.T) {
	env := newTestEnv(t)
	svc := env.collectionService()
	ctx := context.Background()
	alice := env.createUser(t, "alice@example.com", "alice")
	bob := env.createUser(t, "bob@example.com", "bob")

	collection, err := svc.CreateCollection(ctx, alice.ID, CreateCollectionRequest{Name: "Favorites"})
	require.NoError(t, err)

	mine := env.createBook(t, alice.ID, "", "/works/OL1W", "Mine", 200)
	theirs := env.createBook(t, bob.ID, "", "/works/OL2W", "Theirs", 200)

	require.NoError(t, svc.AddBook(ctx, alice.ID, collection.ID, AddCollectionBookRequest{BookID: mine.ID}))

	// Someone else's book reads as missing.
	err = svc.AddBook(ctx, alice.ID, collection.ID, AddCollectionBookRequest{BookID: theirs.ID})
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Someone else's collection reads as missing too.
	err = svc.AddBook(ctx, bob.ID, collection.ID, AddCollectionBookRequest{BookID: theirs.ID})
	assert.ErrorIs(t, err, store.ErrNotFound)

	collections, err := svc.ListCollections(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, collections, 1)
	require.Len(t, collections[0].Books, 1)
	assert.Equal(t, "Mine", collections[0].Books[0].Title)
}

func TestCollectionService_UpdatePartial(t *testing.T) {
	env := newTestEnv(t)
	svc := env.collectionService()
	ctx := context.Background()
	u := env.createUser(t, "alice@example.com", "alice")

	collection, err := svc.CreateCollection(ctx, u.ID, CreateCollectionRequest{Name: "Favorites"})
	require.NoError(t, err)

	name := "Rereads"
	order := 5
	updated, err := svc.UpdateCollection(ctx, u.ID, collection.ID, UpdateCollectionRequest{Name: &name, SortOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, "Rereads", updated.Name)
	assert.Equal(t, 5, updated.SortOrder)
	// Untouched fields keep their values.
	assert.Equal(t, domain.DefaultCollectionIcon, updated.Icon)
}

func TestCollectionService_DeleteScoped(t *testing.T) {
	env := newTestEnv(t)
	svc := env.collectionService()
	ctx := context.Background()
	alice := env.createUser(t, "alice@example.com", "alice")
	bob := env.createUser(t, "bob@example.com", "bob")

	collection, err := svc.CreateCollection(ctx, alice.ID, CreateCollectionRequest{Name: "Favorites"})
	require.NoError(t, err)

	err = svc.DeleteCollection(ctx, bob.ID, collection.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, svc.DeleteCollection(ctx, alice.ID, collection.ID))
}
