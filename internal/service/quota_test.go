package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnyfernandes/Shlf-Backend/internal/errors"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
)

func TestQuotaService_CheckCanAddBook(t *testing.T) {
	env := newTestEnv(t)
	svc := env.quotaService(3)
	ctx := context.Background()

	// Accounts are never limited.
	u := env.createUser(t, "alice@example.com", "alice")
	assert.NoError(t, svc.CheckCanAddBook(ctx, identity.User(u.ID)))

	// A fresh device has room.
	assert.NoError(t, svc.CheckCanAddBook(ctx, identity.Device("device-1")))

	// Fill the device up.
	env.createBook(t, "", "device-1", "/works/OL1W", "One", 100)
	env.createBook(t, "", "device-1", "/works/OL2W", "Two", 100)
	env.createBook(t, "", "device-1", "/works/OL3W", "Three", 100)

	err := svc.CheckCanAddBook(ctx, identity.Device("device-1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrQuotaExceeded))

	var domainErr *errors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, errors.CodeQuotaExceeded, domainErr.Code)

	details, ok := domainErr.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3, details["limit"])
	assert.Equal(t, 3, details["used"])
	assert.Equal(t, 0, details["remaining"])
	assert.Equal(t, true, details["requiresAccount"])

	// Another device is unaffected.
	assert.NoError(t, svc.CheckCanAddBook(ctx, identity.Device("device-2")))
}

func TestQuotaService_CheckCanAddBook_NoIdentity(t *testing.T) {
	env := newTestEnv(t)
	svc := env.quotaService(3)

	err := svc.CheckCanAddBook(context.Background(), identity.Unidentified())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDeviceRequired))
}

func TestQuotaService_Status(t *testing.T) {
	env := newTestEnv(t)
	svc := env.quotaService(3)
	ctx := context.Background()

	env.createBook(t, "", "device-1", "/works/OL1W", "One", 100)

	status, err := svc.Status(ctx, identity.Device("device-1"))
	require.NoError(t, err)
	assert.Equal(t, 3, status.Limit)
	assert.Equal(t, 1, status.Used)
	assert.Equal(t, 2, status.Remaining)
	assert.False(t, status.RequiresAccount)
	assert.False(t, status.Unlimited)

	// Accounts report unlimited.
	u := env.createUser(t, "alice@example.com", "alice")
	status, err = svc.Status(ctx, identity.User(u.ID))
	require.NoError(t, err)
	assert.True(t, status.Unlimited)
}

func TestQuotaService_Status_AtLimit(t *testing.T) {
	env := newTestEnv(t)
	svc := env.quotaService(2)
	ctx := context.Background()

	env.createBook(t, "", "device-1", "/works/OL1W", "One", 100)
	env.createBook(t, "", "device-1", "/works/OL2W", "Two", 100)

	status, err := svc.Status(ctx, identity.Device("device-1"))
	require.NoError(t, err)
	assert.Equal(t, 0, status.Remaining)
	assert.True(t, status.RequiresAccount)
}
