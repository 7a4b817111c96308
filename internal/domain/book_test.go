package domain

import (
	"testing"
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/errors"
)

func statusPtr(s ReadingStatus) *ReadingStatus { return &s }
func intPtr(v int) *int                        { return &v }
func strPtr(v string) *string                  { return &v }
func boolPtr(v bool) *bool                     { return &v }

func testBook() *Book {
	return &Book{
		ID:            "book-test1",
		DeviceID:      "device-xyz",
		OpenLibraryID: "/works/OL45883W",
		Title:         "The Fellowship of the Ring",
		Authors:       []string{"J.R.R. Tolkien"},
		PageCount:     423,
		ReadingStatus: StatusWantToRead,
	}
}

func TestApplyUpdate_StartReadingStampsStartedAt(t *testing.T) {
	b := testBook()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := b.ApplyUpdate(BookUpdate{ReadingStatus: statusPtr(StatusReading)}, now); err != nil {
		t.Fatal(err)
	}

	if b.ReadingStatus != StatusReading {
		t.Errorf("status = %s", b.ReadingStatus)
	}
	if b.StartedAt == nil || !b.StartedAt.Equal(now) {
		t.Errorf("startedAt not stamped: %v", b.StartedAt)
	}
}

func TestApplyUpdate_StartedAtStampedOnce(t *testing.T) {
	b := testBook()
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	if err := b.ApplyUpdate(BookUpdate{ReadingStatus: statusPtr(StatusReading)}, first); err != nil {
		t.Fatal(err)
	}
	// Pause and resume.
	if err := b.ApplyUpdate(BookUpdate{ReadingStatus: statusPtr(StatusDidNotFinish)}, later); err != nil {
		t.Fatal(err)
	}
	if err := b.ApplyUpdate(BookUpdate{ReadingStatus: statusPtr(StatusReading)}, later.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	if !b.StartedAt.Equal(first) {
		t.Errorf("startedAt should keep the original stamp, got %v", b.StartedAt)
	}
}

func TestApplyUpdate_CompleteSnapsToPageCount(t *testing.T) {
	b := testBook()
	b.CurrentPage = 100
	now := time.Now()

	if err := b.ApplyUpdate(BookUpdate{ReadingStatus: statusPtr(StatusCompleted)}, now); err != nil {
		t.Fatal(err)
	}

	if b.CompletedAt == nil {
		t.Fatal("completedAt not stamped")
	}
	if b.CurrentPage != 423 {
		t.Errorf("currentPage = %d, want 423", b.CurrentPage)
	}
}

func TestApplyUpdate_CompleteWithExplicitPage(t *testing.T) {
	b := testBook()
	now := time.Now()

	err := b.ApplyUpdate(BookUpdate{
		ReadingStatus: statusPtr(StatusCompleted),
		CurrentPage:   intPtr(400),
	}, now)
	if err != nil {
		t.Fatal(err)
	}

	// Explicit page wins over the snap-to-end default.
	if b.CurrentPage != 400 {
		t.Errorf("currentPage = %d, want 400", b.CurrentPage)
	}
}

func TestApplyUpdate_CompleteUnknownPageCountKeepsPage(t *testing.T) {
	b := testBook()
	b.PageCount = 0
	b.CurrentPage = 57

	if err := b.ApplyUpdate(BookUpdate{ReadingStatus: statusPtr(StatusCompleted)}, time.Now()); err != nil {
		t.Fatal(err)
	}

	if b.CurrentPage != 57 {
		t.Errorf("currentPage = %d, want 57 (unchanged)", b.CurrentPage)
	}
}

func TestApplyUpdate_CompletedAtStampedOnce(t *testing.T) {
	b := testBook()
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := b.ApplyUpdate(BookUpdate{ReadingStatus: statusPtr(StatusCompleted)}, first); err != nil {
		t.Fatal(err)
	}
	// Re-read and complete again.
	if err := b.ApplyUpdate(BookUpdate{ReadingStatus: statusPtr(StatusReading)}, first.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := b.ApplyUpdate(BookUpdate{ReadingStatus: statusPtr(StatusCompleted)}, first.Add(2*time.Hour)); err != nil {
		t.Fatal(err)
	}

	if !b.CompletedAt.Equal(first) {
		t.Errorf("completedAt should keep the original stamp, got %v", b.CompletedAt)
	}
}

func TestApplyUpdate_PageBeyondCountRejected(t *testing.T) {
	b := testBook()

	err := b.ApplyUpdate(BookUpdate{CurrentPage: intPtr(500)}, time.Now())
	if !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Rejected update leaves the book untouched.
	if b.CurrentPage != 0 {
		t.Errorf("currentPage mutated on failed update: %d", b.CurrentPage)
	}
}

func TestApplyUpdate_PageBeyondUnknownCountAllowed(t *testing.T) {
	b := testBook()
	b.PageCount = 0

	if err := b.ApplyUpdate(BookUpdate{CurrentPage: intPtr(9999)}, time.Now()); err != nil {
		t.Fatalf("unknown page count should skip the upper bound: %v", err)
	}
	if b.CurrentPage != 9999 {
		t.Errorf("currentPage = %d", b.CurrentPage)
	}
}

func TestApplyUpdate_NegativePageRejected(t *testing.T) {
	b := testBook()
	err := b.ApplyUpdate(BookUpdate{CurrentPage: intPtr(-1)}, time.Now())
	if !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyUpdate_InvalidStatusRejected(t *testing.T) {
	b := testBook()
	err := b.ApplyUpdate(BookUpdate{ReadingStatus: statusPtr("on_hold")}, time.Now())
	if !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyUpdate_RatingBounds(t *testing.T) {
	b := testBook()

	for _, bad := range []int{0, 6, -3} {
		if err := b.ApplyUpdate(BookUpdate{Rating: intPtr(bad)}, time.Now()); !errors.Is(err, errors.ErrValidation) {
			t.Errorf("rating %d: expected validation error, got %v", bad, err)
		}
	}

	if err := b.ApplyUpdate(BookUpdate{Rating: intPtr(5)}, time.Now()); err != nil {
		t.Fatal(err)
	}
	if b.Rating == nil || *b.Rating != 5 {
		t.Errorf("rating not applied: %v", b.Rating)
	}
}

func TestApplyUpdate_MergeLeavesOtherFields(t *testing.T) {
	b := testBook()
	b.Review = "keep me"

	err := b.ApplyUpdate(BookUpdate{
		Notes:      strPtr("chapter 3 drags"),
		IsFavorite: boolPtr(true),
	}, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if b.Review != "keep me" {
		t.Errorf("review clobbered: %q", b.Review)
	}
	if b.Notes != "chapter 3 drags" || !b.IsFavorite {
		t.Errorf("update not applied: notes=%q favorite=%v", b.Notes, b.IsFavorite)
	}
}

func TestAdvanceCurrentPage(t *testing.T) {
	b := testBook()
	b.CurrentPage = 100
	now := time.Now()

	if !b.AdvanceCurrentPage(150, now) {
		t.Error("expected advance to 150")
	}
	if b.CurrentPage != 150 {
		t.Errorf("currentPage = %d", b.CurrentPage)
	}

	// Never moves backwards.
	if b.AdvanceCurrentPage(120, now) {
		t.Error("should not move backwards")
	}
	if b.CurrentPage != 150 {
		t.Errorf("currentPage = %d", b.CurrentPage)
	}

	// Equal is not an advance.
	if b.AdvanceCurrentPage(150, now) {
		t.Error("equal page should not advance")
	}
}

func TestProgressPercentage(t *testing.T) {
	b := testBook()

	b.CurrentPage = 0
	if got := b.ProgressPercentage(); got != 0 {
		t.Errorf("got %d", got)
	}

	b.CurrentPage = 423
	if got := b.ProgressPercentage(); got != 100 {
		t.Errorf("got %d", got)
	}

	b.PageCount = 0
	if got := b.ProgressPercentage(); got != 0 {
		t.Errorf("unknown page count should report 0, got %d", got)
	}
}
