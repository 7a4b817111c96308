package domain

import (
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/errors"
)

// ReadingStatus represents where a book sits in the reader's pipeline.
type ReadingStatus string

const (
	// StatusWantToRead is the default status for a newly added book.
	StatusWantToRead ReadingStatus = "want_to_read"
	// StatusReading means the reader is actively working through the book.
	StatusReading ReadingStatus = "reading"
	// StatusCompleted means the reader finished the book.
	StatusCompleted ReadingStatus = "completed"
	// StatusDidNotFinish means the reader abandoned the book.
	StatusDidNotFinish ReadingStatus = "did_not_finish"
)

// Valid reports whether the status is one of the known values.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusCompleted, StatusDidNotFinish:
		return true
	}
	return false
}

// Book is a tracked book in someone's library. It belongs to either an
// authenticated user (UserID set) or an anonymous device (DeviceID set,
// UserID empty). Once a user claims a device's books, UserID is set and the
// device can no longer see them.
type Book struct {
	ID       string `json:"id"`
	UserID   string `json:"userId,omitempty"`
	DeviceID string `json:"deviceId,omitempty"`

	// Open Library identifiers
	OpenLibraryID string `json:"openLibraryId"`
	ISBN          string `json:"isbn,omitempty"`

	// Book details
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       []string `json:"authors"`
	CoverImageURL string   `json:"coverImageUrl,omitempty"`
	Description   string   `json:"description,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	PageCount     int      `json:"pageCount"`
	Subjects      []string `json:"subjects,omitempty"`

	// Reading progress
	ReadingStatus ReadingStatus `json:"readingStatus"`
	CurrentPage   int           `json:"currentPage"`
	StartedAt     *time.Time    `json:"startedAt,omitempty"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`

	// Personal data
	Rating     *int   `json:"rating,omitempty"`
	Review     string `json:"review,omitempty"`
	Notes      string `json:"notes,omitempty"`
	IsFavorite bool   `json:"isFavorite"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProgressPercentage returns reading progress as 0-100, capped at 100.
// Unknown page counts report 0.
func (b *Book) ProgressPercentage() int {
	if b.PageCount <= 0 {
		return 0
	}
	pct := (b.CurrentPage*100 + b.PageCount/2) / b.PageCount
	if pct > 100 {
		return 100
	}
	return pct
}

// BookUpdate is a partial update to a book's progress and personal data.
// Nil fields are left untouched.
type BookUpdate struct {
	ReadingStatus *ReadingStatus
	CurrentPage   *int
	Rating        *int
	Review        *string
	Notes         *string
	IsFavorite    *bool
}

// ApplyUpdate merges the update into the book, driving the progress state
// machine:
//
//   - Entering "reading" for the first time stamps StartedAt.
//   - Entering "completed" for the first time stamps CompletedAt and snaps
//     CurrentPage to PageCount (when known), unless the same update carries
//     an explicit page.
//   - An explicit CurrentPage above a known PageCount is rejected.
//
// Timestamps are stamped at most once; revisiting a status keeps the
// original dates. Validation happens before any field is mutated, so a
// rejected update leaves the book unchanged.
func (b *Book) ApplyUpdate(u BookUpdate, now time.Time) error {
	if u.ReadingStatus != nil && !u.ReadingStatus.Valid() {
		return errors.Validationf("invalid reading status: %s", *u.ReadingStatus)
	}
	if u.CurrentPage != nil {
		if *u.CurrentPage < 0 {
			return errors.Validation("currentPage cannot be negative")
		}
		if b.PageCount > 0 && *u.CurrentPage > b.PageCount {
			return errors.Validation("Current page cannot exceed total page count")
		}
	}
	if u.Rating != nil && (*u.Rating < 1 || *u.Rating > 5) {
		return errors.Validation("rating must be between 1 and 5")
	}

	if u.ReadingStatus != nil {
		b.ReadingStatus = *u.ReadingStatus

		if *u.ReadingStatus == StatusReading && b.StartedAt == nil {
			started := now
			b.StartedAt = &started
		}
		if *u.ReadingStatus == StatusCompleted && b.CompletedAt == nil {
			completed := now
			b.CompletedAt = &completed
			// Snap to the last page unless the caller set one explicitly.
			if u.CurrentPage == nil && b.PageCount > 0 {
				b.CurrentPage = b.PageCount
			}
		}
	}

	if u.CurrentPage != nil {
		b.CurrentPage = *u.CurrentPage
	}
	if u.Rating != nil {
		rating := *u.Rating
		b.Rating = &rating
	}
	if u.Review != nil {
		b.Review = *u.Review
	}
	if u.Notes != nil {
		b.Notes = *u.Notes
	}
	if u.IsFavorite != nil {
		b.IsFavorite = *u.IsFavorite
	}

	b.UpdatedAt = now
	return nil
}

// AdvanceCurrentPage moves CurrentPage forward to page if it is ahead of the
// current value. Used when a logged reading session ends past the bookmark.
// Returns true if the page moved.
func (b *Book) AdvanceCurrentPage(page int, now time.Time) bool {
	if page <= b.CurrentPage {
		return false
	}
	b.CurrentPage = page
	b.UpdatedAt = now
	return true
}
