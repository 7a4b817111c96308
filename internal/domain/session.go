package domain

import (
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/errors"
)

// ReadingSession is one sitting with a book: a page range plus optional
// timing and notes. Sessions belong to a book and are owned transitively
// through it.
type ReadingSession struct {
	ID     string `json:"id"`
	BookID string `json:"bookId"`

	StartPage int  `json:"startPage"`
	EndPage   int  `json:"endPage"`
	Duration  *int `json:"duration,omitempty"` // minutes

	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Date      string     `json:"date"` // YYYY-MM-DD
	Notes     string     `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PagesRead returns the number of pages covered by the session.
func (s *ReadingSession) PagesRead() int {
	if s.EndPage <= s.StartPage {
		return 0
	}
	return s.EndPage - s.StartPage
}

// ValidatePages checks a session's page range against the book's page count.
// A zero pageCount means the count is unknown and the upper bound is skipped.
func ValidatePages(startPage, endPage, pageCount int) error {
	if startPage < 0 || endPage < 0 {
		return errors.Validation("pages cannot be negative")
	}
	if endPage < startPage {
		return errors.Validation("endPage cannot be less than startPage")
	}
	if pageCount > 0 && endPage > pageCount {
		return errors.Validation("endPage cannot exceed book page count")
	}
	return nil
}

// SessionUpdate is a partial update to a reading session. Nil fields are
// left untouched.
type SessionUpdate struct {
	StartPage *int
	EndPage   *int
	Duration  *int
	StartTime *time.Time
	EndTime   *time.Time
	Date      *string
	Notes     *string
}

// ApplyUpdate merges the update into the session. The merged page pair is
// re-validated against the book's page count before anything is written.
// Updating a session never touches the parent book's bookmark.
func (s *ReadingSession) ApplyUpdate(u SessionUpdate, pageCount int, now time.Time) error {
	newStart := s.StartPage
	if u.StartPage != nil {
		newStart = *u.StartPage
	}
	newEnd := s.EndPage
	if u.EndPage != nil {
		newEnd = *u.EndPage
	}

	if err := ValidatePages(newStart, newEnd, pageCount); err != nil {
		return err
	}

	s.StartPage = newStart
	s.EndPage = newEnd
	if u.Duration != nil {
		duration := *u.Duration
		s.Duration = &duration
	}
	if u.StartTime != nil {
		t := *u.StartTime
		s.StartTime = &t
	}
	if u.EndTime != nil {
		t := *u.EndTime
		s.EndTime = &t
	}
	if u.Date != nil {
		s.Date = *u.Date
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}

	s.UpdatedAt = now
	return nil
}
