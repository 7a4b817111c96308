package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	domainerrors "github.com/johnyfernandes/Shlf-Backend/internal/errors"
	"github.com/johnyfernandes/Shlf-Backend/internal/id"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/store"
	"github.com/johnyfernandes/Shlf-Backend/internal/store/sqlite"
	"github.com/johnyfernandes/Shlf-Backend/internal/validation"
)

const dateLayout = "2006-01-02"

// SessionService manages the reading-session ledger. Logging a session can
// advance the parent book's bookmark; editing or deleting one never does.
type SessionService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(store *sqlite.Store, validator *validation.Validator, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateSessionRequest contains the data to log a reading session.
type CreateSessionRequest struct {
	StartPage int        `json:"startPage" validate:"gte=0"`
	EndPage   int        `json:"endPage" validate:"gte=0"`
	Duration  *int       `json:"duration" validate:"omitempty,gte=0"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Date      string     `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes     string     `json:"notes" validate:"max=2000"`
}

// UpdateSessionRequest is a partial session update. Nil fields are untouched.
type UpdateSessionRequest struct {
	StartPage *int       `json:"startPage" validate:"omitempty,gte=0"`
	EndPage   *int       `json:"endPage" validate:"omitempty,gte=0"`
	Duration  *int       `json:"duration" validate:"omitempty,gte=0"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Date      *string    `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes     *string    `json:"notes" validate:"omitempty,max=2000"`
}

// CreateSession logs a session against one of the owner's books. When the
// session ends past the book's bookmark, the bookmark advances to match.
func (s *SessionService) CreateSession(ctx context.Context, owner identity.Owner, bookID string, req CreateSessionRequest) (*domain.ReadingSession, error) {
	if !owner.Identified() {
		return nil, domainerrors.Unauthorized("Authentication required")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, owner, bookID)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidatePages(req.StartPage, req.EndPage, book.PageCount); err != nil {
		return nil, err
	}

	sessionID, err := id.Generate("sess")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	date := req.Date
	if date == "" {
		date = now.Format(dateLayout)
	}

	session := &domain.ReadingSession{
		ID:        sessionID,
		BookID:    book.ID,
		StartPage: req.StartPage,
		EndPage:   req.EndPage,
		Duration:  req.Duration,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Date:      date,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	// Only creation moves the bookmark, and only forward.
	if book.AdvanceCurrentPage(req.EndPage, now) {
		if err := s.store.UpdateBook(ctx, owner, book); err != nil {
			s.logger.Warn("failed to advance book bookmark",
				"book_id", book.ID,
				"session_id", session.ID,
				"error", err)
		}
	}

	return session, nil
}

// ListBookSessions returns all sessions for one of the owner's books,
// newest first.
func (s *SessionService) ListBookSessions(ctx context.Context, owner identity.Owner, bookID string) ([]*domain.ReadingSession, error) {
	sessions, err := s.store.ListBookSessions(ctx, owner, bookID)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []*domain.ReadingSession{}
	}
	return sessions, nil
}

// ListAllSessions returns every session across the owner's library with
// book summaries attached.
func (s *SessionService) ListAllSessions(ctx context.Context, owner identity.Owner) ([]*store.SessionWithBook, error) {
	sessions, err := s.store.ListOwnerSessions(ctx, owner)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []*store.SessionWithBook{}
	}
	return sessions, nil
}

// UpdateSession applies a partial update to a session. The merged page pair
// is re-validated against the book's page count. The book's bookmark is
// left alone.
func (s *SessionService) UpdateSession(ctx context.Context, owner identity.Owner, sessionID string, req UpdateSessionRequest) (*domain.ReadingSession, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.store.GetSession(ctx, owner, sessionID)
	if err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, owner, session.BookID)
	if err != nil {
		return nil, err
	}

	update := domain.SessionUpdate{
		StartPage: req.StartPage,
		EndPage:   req.EndPage,
		Duration:  req.Duration,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Date:      req.Date,
		Notes:     req.Notes,
	}
	if err := session.ApplyUpdate(update, book.PageCount, time.Now()); err != nil {
		return nil, err
	}

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session from the ledger. The book's bookmark is
// untouched.
func (s *SessionService) DeleteSession(ctx context.Context, owner identity.Owner, sessionID string) error {
	return s.store.DeleteSession(ctx, owner, sessionID)
}
