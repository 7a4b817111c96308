package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/errors"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/store"
)

func TestCreateGetBook_UserOwned(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com", "alice")

	created := createTestBook(t, s, u.ID, "", "/works/OL1W", "Book One")

	got, err := s.GetBook(ctx, identity.User(u.ID), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Book One" || got.UserID != u.ID || got.DeviceID != "" {
		t.Errorf("unexpected book: %+v", got)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "Test Author" {
		t.Errorf("authors round trip failed: %v", got.Authors)
	}
}

func TestGetBook_CrossOwnerIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "a@example.com", "alice")
	bob := createTestUser(t, s, "b@example.com", "bob")

	book := createTestBook(t, s, alice.ID, "", "/works/OL1W", "Alice's Book")

	// Bob sees the same error as for a missing ID.
	_, errOther := s.GetBook(ctx, identity.User(bob.ID), book.ID)
	_, errMissing := s.GetBook(ctx, identity.User(bob.ID), "book-missing")

	if !errors.Is(errOther, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", errOther)
	}
	if errOther.Error() != errMissing.Error() {
		t.Errorf("foreign and missing books must be indistinguishable: %q vs %q", errOther, errMissing)
	}
}

func TestGetBook_DeviceScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := createTestBook(t, s, "", "device-1", "/works/OL1W", "Device Book")

	// The owning device sees it.
	if _, err := s.GetBook(ctx, identity.Device("device-1"), book.ID); err != nil {
		t.Fatalf("owner device: %v", err)
	}

	// Another device does not.
	if _, err := s.GetBook(ctx, identity.Device("device-2"), book.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("foreign device: expected not found, got %v", err)
	}
}

func TestGetBook_UnidentifiedIsUnauthorized(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBook(context.Background(), identity.Unidentified(), "book-any")
	if !errors.Is(err, store.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreateBook_DuplicateWork(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com", "alice")

	createTestBook(t, s, u.ID, "", "/works/OL1W", "Book One")

	dup := testBookFor(u.ID, "", "/works/OL1W", "Book One Again")
	if err := s.CreateBook(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	// Another user can track the same work.
	other := createTestUser(t, s, "b@example.com", "bob")
	createTestBook(t, s, other.ID, "", "/works/OL1W", "Bob's Copy")
}

func TestCreateBook_DeviceDuplicateWork(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestBook(t, s, "", "device-1", "/works/OL1W", "First")

	dup := testBookFor("", "device-1", "/works/OL1W", "Second")
	if err := s.CreateBook(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	// A different device can track the same work.
	createTestBook(t, s, "", "device-2", "/works/OL1W", "Other Device")
}

func TestListBooks_FilterSortPaginate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com", "alice")
	owner := identity.User(u.ID)

	b1 := createTestBook(t, s, u.ID, "", "/works/OL1W", "Alpha")
	b2 := createTestBook(t, s, u.ID, "", "/works/OL2W", "Beta")
	createTestBook(t, s, u.ID, "", "/works/OL3W", "Gamma")

	// Move two books into reading status.
	for _, b := range []*domain.Book{b1, b2} {
		b.ReadingStatus = domain.StatusReading
		if err := s.UpdateBook(ctx, owner, b); err != nil {
			t.Fatal(err)
		}
	}

	filter := store.BookFilter{Status: "reading", SortBy: "title", Order: "asc"}
	if err := filter.Validate(); err != nil {
		t.Fatal(err)
	}

	books, total, err := s.ListBooks(ctx, owner, filter)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(books) != 2 {
		t.Fatalf("total=%d len=%d", total, len(books))
	}
	if books[0].Title != "Alpha" || books[1].Title != "Beta" {
		t.Errorf("sort order wrong: %s, %s", books[0].Title, books[1].Title)
	}

	// Page 2 with limit 1.
	filter = store.BookFilter{SortBy: "title", Order: "asc", PageParams: store.PageParams{Page: 2, Limit: 1}}
	if err := filter.Validate(); err != nil {
		t.Fatal(err)
	}
	books, total, err = s.ListBooks(ctx, owner, filter)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(books) != 1 || books[0].Title != "Beta" {
		t.Errorf("pagination wrong: total=%d books=%v", total, books)
	}
}

func TestUpdateBook_PersistsProgress(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com", "alice")
	owner := identity.User(u.ID)

	book := createTestBook(t, s, u.ID, "", "/works/OL1W", "Book")

	now := time.Now()
	book.ReadingStatus = domain.StatusReading
	book.CurrentPage = 42
	book.StartedAt = &now
	rating := 4
	book.Rating = &rating
	book.UpdatedAt = now

	if err := s.UpdateBook(ctx, owner, book); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetBook(ctx, owner, book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ReadingStatus != domain.StatusReading || got.CurrentPage != 42 {
		t.Errorf("progress not persisted: %+v", got)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(now.UTC().Truncate(time.Nanosecond)) && !got.StartedAt.Equal(now) {
		if got.StartedAt == nil {
			t.Error("startedAt not persisted")
		}
	}
	if got.Rating == nil || *got.Rating != 4 {
		t.Errorf("rating not persisted: %v", got.Rating)
	}
}

func TestUpdateBook_CrossOwnerIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com", "alice")

	book := createTestBook(t, s, u.ID, "", "/works/OL1W", "Book")

	book.Title = "Hijacked"
	err := s.UpdateBook(ctx, identity.Device("device-evil"), book)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteBook_CascadesSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com", "alice")
	owner := identity.User(u.ID)

	book := createTestBook(t, s, u.ID, "", "/works/OL1W", "Book")
	session := createTestSession(t, s, book.ID, 1, 50)

	if err := s.DeleteBook(ctx, owner, book.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetBook(ctx, owner, book.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("book still present: %v", err)
	}

	// Session rows cascade with the book.
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM reading_sessions WHERE id = ?`, session.ID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Error("session survived book deletion")
	}
}

func TestCountDeviceBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestBook(t, s, "", "device-1", "/works/OL1W", "One")
	createTestBook(t, s, "", "device-1", "/works/OL2W", "Two")
	createTestBook(t, s, "", "device-2", "/works/OL1W", "Other Device")

	count, err := s.CountDeviceBooks(ctx, "device-1")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestClaimDeviceBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com", "alice")

	createTestBook(t, s, "", "device-1", "/works/OL1W", "One")
	createTestBook(t, s, "", "device-1", "/works/OL2W", "Two")
	// The user already tracks OL2W; that device book must be skipped.
	createTestBook(t, s, u.ID, "", "/works/OL2W", "User's Copy")

	claimed, err := s.ClaimDeviceBooks(ctx, "device-1", u.ID, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if claimed != 1 {
		t.Errorf("claimed = %d, want 1", claimed)
	}

	// Claimed book now belongs to the user and is invisible to the device.
	count, err := s.CountDeviceBooks(ctx, "device-1")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("device still counts %d books, want 1 (the skipped duplicate)", count)
	}

	books, err := s.ListAllBooks(ctx, identity.User(u.ID))
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 2 {
		t.Errorf("user has %d books, want 2", len(books))
	}
}

func TestCompletedInYear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com", "alice")
	owner := identity.User(u.ID)

	book := createTestBook(t, s, u.ID, "", "/works/OL1W", "Done")
	completed := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	book.ReadingStatus = domain.StatusCompleted
	book.CompletedAt = &completed
	book.CurrentPage = book.PageCount
	if err := s.UpdateBook(ctx, owner, book); err != nil {
		t.Fatal(err)
	}

	// Completed in a different year.
	old := createTestBook(t, s, u.ID, "", "/works/OL2W", "Old")
	oldDone := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	old.ReadingStatus = domain.StatusCompleted
	old.CompletedAt = &oldDone
	if err := s.UpdateBook(ctx, owner, old); err != nil {
		t.Fatal(err)
	}

	books, pages, err := s.CompletedInYear(ctx, u.ID, 2026)
	if err != nil {
		t.Fatal(err)
	}
	if books != 1 || pages != 300 {
		t.Errorf("books=%d pages=%d, want 1/300", books, pages)
	}

	// A five-digit year must not collapse onto its last four digits.
	books, _, err = s.CompletedInYear(ctx, u.ID, 12026)
	if err != nil {
		t.Fatal(err)
	}
	if books != 0 {
		t.Errorf("year 12026 matched %d books, want 0", books)
	}
}
