package domain

import (
	"testing"
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/errors"
)

func TestValidatePages(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		end       int
		pageCount int
		wantErr   bool
	}{
		{"valid range", 10, 50, 423, false},
		{"single page", 10, 10, 423, false},
		{"end before start", 50, 10, 423, true},
		{"end beyond count", 10, 500, 423, true},
		{"end beyond unknown count", 10, 500, 0, false},
		{"negative start", -1, 10, 423, true},
		{"end at count", 400, 423, 423, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePages(tt.start, tt.end, tt.pageCount)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPagesRead(t *testing.T) {
	s := &ReadingSession{StartPage: 10, EndPage: 50}
	if got := s.PagesRead(); got != 40 {
		t.Errorf("got %d, want 40", got)
	}

	s = &ReadingSession{StartPage: 10, EndPage: 10}
	if got := s.PagesRead(); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestSessionApplyUpdate_RevalidatesMergedPair(t *testing.T) {
	s := &ReadingSession{StartPage: 10, EndPage: 50}

	// Lowering only endPage below the existing startPage must fail.
	err := s.ApplyUpdate(SessionUpdate{EndPage: intPtr(5)}, 423, time.Now())
	if !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.EndPage != 50 {
		t.Errorf("endPage mutated on failed update: %d", s.EndPage)
	}

	// Moving both in one update is fine.
	if err := s.ApplyUpdate(SessionUpdate{StartPage: intPtr(1), EndPage: intPtr(5)}, 423, time.Now()); err != nil {
		t.Fatal(err)
	}
	if s.StartPage != 1 || s.EndPage != 5 {
		t.Errorf("update not applied: %d-%d", s.StartPage, s.EndPage)
	}
}

func TestSessionApplyUpdate_EndBeyondPageCount(t *testing.T) {
	s := &ReadingSession{StartPage: 10, EndPage: 50}

	err := s.ApplyUpdate(SessionUpdate{EndPage: intPtr(500)}, 423, time.Now())
	if !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSessionApplyUpdate_PartialFields(t *testing.T) {
	s := &ReadingSession{StartPage: 10, EndPage: 50, Notes: "old"}
	now := time.Now()

	err := s.ApplyUpdate(SessionUpdate{
		Duration: intPtr(45),
		Date:     strPtr("2026-03-01"),
	}, 423, now)
	if err != nil {
		t.Fatal(err)
	}

	if s.Duration == nil || *s.Duration != 45 {
		t.Errorf("duration not applied: %v", s.Duration)
	}
	if s.Date != "2026-03-01" {
		t.Errorf("date not applied: %q", s.Date)
	}
	if s.Notes != "old" {
		t.Errorf("notes clobbered: %q", s.Notes)
	}
	if s.StartPage != 10 || s.EndPage != 50 {
		t.Errorf("pages clobbered: %d-%d", s.StartPage, s.EndPage)
	}
}
