package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johnyfernandes/Shlf-Backend/internal/auth"
	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/id"
	"github.com/johnyfernandes/Shlf-Backend/internal/store/sqlite"
	"github.com/johnyfernandes/Shlf-Backend/internal/validation"
)

// testEnv bundles the shared fixtures for service tests.
type testEnv struct {
	store     *sqlite.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.Open(path, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	keyHex := hex.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
	tokens, err := auth.NewTokenService(keyHex, time.Hour)
	require.NoError(t, err)

	return &testEnv{
		store:     s,
		tokens:    tokens,
		validator: validation.New(),
		logger:    logger,
	}
}

func (e *testEnv) authService() *AuthService {
	return NewAuthService(e.store, e.tokens, e.validator, e.logger)
}

func (e *testEnv) quotaService(limit int) *QuotaService {
	return NewQuotaService(e.store, limit, e.logger)
}

func (e *testEnv) bookService(quota *QuotaService, metadata WorkDetailsFetcher) *BookService {
	return NewBookService(e.store, quota, metadata, e.validator, e.logger)
}

func (e *testEnv) sessionService() *SessionService {
	return NewSessionService(e.store, e.validator, e.logger)
}

func (e *testEnv) goalService() *GoalService {
	return NewGoalService(e.store, e.validator, e.logger)
}

func (e *testEnv) collectionService() *CollectionService {
	return NewCollectionService(e.store, e.validator, e.logger)
}

// createUser inserts a user directly, bypassing registration.
func (e *testEnv) createUser(t *testing.T, email, username string) *domain.User {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	now := time.Now()
	u := &domain.User{
		ID:           id.MustGenerate("user"),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

// createBook inserts a book owned by the given columns.
func (e *testEnv) createBook(t *testing.T, userID, deviceID, workID, title string, pageCount int) *domain.Book {
	t.Helper()

	now := time.Now()
	b := &domain.Book{
		ID:            id.MustGenerate("book"),
		UserID:        userID,
		DeviceID:      deviceID,
		OpenLibraryID: workID,
		Title:         title,
		Authors:       []string{"Test Author"},
		PageCount:     pageCount,
		ReadingStatus: domain.StatusWantToRead,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, e.store.CreateBook(context.Background(), b))
	return b
}
