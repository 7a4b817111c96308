package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/store"
)

// sessionColumns is the ordered list of columns selected in session queries.
// Must match the scan order in scanSession. Prefixed with s. because session
// queries join through books for ownership.
const sessionColumns = `s.id, s.book_id, s.start_page, s.end_page, s.duration,
	s.start_time, s.end_time, s.date, s.notes, s.created_at, s.updated_at`

// scanSession scans a sql.Row (or sql.Rows via its Scan method) into a domain.ReadingSession.
func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingSession, error) {
	var rs domain.ReadingSession

	var (
		duration  sql.NullInt64
		startTime sql.NullString
		endTime   sql.NullString
		notes     sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&rs.ID,
		&rs.BookID,
		&rs.StartPage,
		&rs.EndPage,
		&duration,
		&startTime,
		&endTime,
		&rs.Date,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rs.Duration = intPtr(duration)
	rs.Notes = notes.String

	rs.StartTime, err = parseNullableTime(startTime)
	if err != nil {
		return nil, err
	}
	rs.EndTime, err = parseNullableTime(endTime)
	if err != nil {
		return nil, err
	}
	rs.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	rs.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &rs, nil
}

// CreateSession inserts a new reading session. The caller is responsible for
// having verified ownership of the parent book.
func (s *Store) CreateSession(ctx context.Context, session *domain.ReadingSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_sessions (
			id, book_id, start_page, end_page, duration,
			start_time, end_time, date, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.BookID,
		session.StartPage,
		session.EndPage,
		nullInt(session.Duration),
		nullTimeString(session.StartTime),
		nullTimeString(session.EndTime),
		session.Date,
		nullString(session.Notes),
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
	)
	return err
}

// GetSession retrieves a session scoped transitively through its owned book.
// A session on someone else's book returns the same store.ErrNotFound as a
// missing one.
func (s *Store) GetSession(ctx context.Context, owner identity.Owner, id string) (*domain.ReadingSession, error) {
	clause, args, err := ownerClause(owner, "b.")
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions s
		JOIN books b ON b.id = s.book_id
		WHERE s.id = ? AND `+clause,
		append([]any{id}, args...)...,
	)

	rs, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("Session not found")
	}
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// ListBookSessions returns all sessions of one owned book, most recent first.
// Returns store.ErrNotFound when the owner does not own the book.
func (s *Store) ListBookSessions(ctx context.Context, owner identity.Owner, bookID string) ([]*domain.ReadingSession, error) {
	// Verify ownership up front so a foreign book 404s instead of returning
	// an empty list.
	if _, err := s.GetBook(ctx, owner, bookID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions s
		WHERE s.book_id = ?
		ORDER BY s.date DESC, s.created_at DESC`,
		bookID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ReadingSession
	for rows.Next() {
		rs, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListOwnerSessions returns every session across all of the owner's books,
// joined with summary book info, most recent first.
func (s *Store) ListOwnerSessions(ctx context.Context, owner identity.Owner) ([]*store.SessionWithBook, error) {
	clause, args, err := ownerClause(owner, "b.")
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+`, b.id, b.title, b.authors, b.cover_image_url
		FROM reading_sessions s
		JOIN books b ON b.id = s.book_id
		WHERE `+clause+`
		ORDER BY s.date DESC, s.created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*store.SessionWithBook
	for rows.Next() {
		var rs domain.ReadingSession
		var (
			duration      sql.NullInt64
			startTime     sql.NullString
			endTime       sql.NullString
			notes         sql.NullString
			createdAt     string
			updatedAt     string
			bookID        string
			bookTitle     string
			authorsJSON   string
			coverImageURL sql.NullString
		)

		err := rows.Scan(
			&rs.ID, &rs.BookID, &rs.StartPage, &rs.EndPage, &duration,
			&startTime, &endTime, &rs.Date, &notes, &createdAt, &updatedAt,
			&bookID, &bookTitle, &authorsJSON, &coverImageURL,
		)
		if err != nil {
			return nil, err
		}

		rs.Duration = intPtr(duration)
		rs.Notes = notes.String
		if rs.StartTime, err = parseNullableTime(startTime); err != nil {
			return nil, err
		}
		if rs.EndTime, err = parseNullableTime(endTime); err != nil {
			return nil, err
		}
		if rs.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if rs.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}

		var authors []string
		if err := json.Unmarshal([]byte(authorsJSON), &authors); err != nil {
			return nil, err
		}

		sessions = append(sessions, &store.SessionWithBook{
			ReadingSession: &rs,
			Book: store.SessionBook{
				ID:            bookID,
				Title:         bookTitle,
				Authors:       authors,
				CoverImageURL: coverImageURL.String,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateSession performs a full row update on a session. Ownership must have
// been established by fetching the session through GetSession first.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) UpdateSession(ctx context.Context, session *domain.ReadingSession) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reading_sessions SET
			start_page = ?, end_page = ?, duration = ?,
			start_time = ?, end_time = ?, date = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		session.StartPage,
		session.EndPage,
		nullInt(session.Duration),
		nullTimeString(session.StartTime),
		nullTimeString(session.EndTime),
		session.Date,
		nullString(session.Notes),
		formatTime(session.UpdatedAt),
		session.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("Session not found")
	}
	return nil
}

// DeleteSession deletes a session scoped transitively through its owned book.
// The parent book's bookmark is never rolled back.
// Returns store.ErrNotFound if the session does not exist or is not owned.
func (s *Store) DeleteSession(ctx context.Context, owner identity.Owner, id string) error {
	clause, args, err := ownerClause(owner, "")
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM reading_sessions WHERE id = ? AND book_id IN (
			SELECT id FROM books WHERE `+clause+`
		)`,
		append([]any{id}, args...)...,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("Session not found")
	}
	return nil
}
