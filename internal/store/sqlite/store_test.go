package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/id"
)

// newTestStore creates a store backed by a temp-dir database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Open(path, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

// createTestUser inserts a user with sensible defaults.
func createTestUser(t *testing.T, s *Store, email, username string) *domain.User {
	t.Helper()

	now := time.Now()
	u := &domain.User{
		ID:           id.MustGenerate("user"),
		Email:        email,
		Username:     username,
		PasswordHash: "$argon2id$test",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// testBookFor builds an unsaved book for the given ownership columns.
func testBookFor(userID, deviceID, workID, title string) *domain.Book {
	now := time.Now()
	return &domain.Book{
		ID:            id.MustGenerate("book"),
		UserID:        userID,
		DeviceID:      deviceID,
		OpenLibraryID: workID,
		Title:         title,
		Authors:       []string{"Test Author"},
		PageCount:     300,
		ReadingStatus: domain.StatusWantToRead,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// createTestBook inserts a book owned by the given columns.
func createTestBook(t *testing.T, s *Store, userID, deviceID, workID, title string) *domain.Book {
	t.Helper()

	b := testBookFor(userID, deviceID, workID, title)
	if err := s.CreateBook(context.Background(), b); err != nil {
		t.Fatalf("create book: %v", err)
	}
	return b
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Open(path, logger)
	if err != nil {
		t.Fatal(err)
	}
	u := createTestUser(t, s, "reopen@example.com", "reopen")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Schema migration must be idempotent.
	s2, err := Open(path, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.GetUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("get user after reopen: %v", err)
	}
	if got.Email != "reopen@example.com" {
		t.Errorf("email = %q", got.Email)
	}
}
