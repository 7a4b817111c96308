package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"strings"
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, user_id, device_id, open_library_id, isbn, title, subtitle,
	authors, cover_image_url, description, published_date, page_count, subjects,
	reading_status, current_page, started_at, completed_at, rating, review, notes,
	is_favorite, created_at, updated_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		userID        sql.NullString
		deviceID      sql.NullString
		isbn          sql.NullString
		subtitle      sql.NullString
		authorsJSON   string
		coverImageURL sql.NullString
		description   sql.NullString
		publishedDate sql.NullString
		subjectsJSON  string
		startedAt     sql.NullString
		completedAt   sql.NullString
		rating        sql.NullInt64
		review        sql.NullString
		notes         sql.NullString
		isFavorite    int
		createdAt     string
		updatedAt     string
	)

	err := scanner.Scan(
		&b.ID,
		&userID,
		&deviceID,
		&b.OpenLibraryID,
		&isbn,
		&b.Title,
		&subtitle,
		&authorsJSON,
		&coverImageURL,
		&description,
		&publishedDate,
		&b.PageCount,
		&subjectsJSON,
		&b.ReadingStatus,
		&b.CurrentPage,
		&startedAt,
		&completedAt,
		&rating,
		&review,
		&notes,
		&isFavorite,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.UserID = userID.String
	b.DeviceID = deviceID.String
	b.ISBN = isbn.String
	b.Subtitle = subtitle.String
	b.CoverImageURL = coverImageURL.String
	b.Description = description.String
	b.PublishedDate = publishedDate.String
	b.Review = review.String
	b.Notes = notes.String
	b.Rating = intPtr(rating)
	b.IsFavorite = isFavorite != 0

	if err := json.Unmarshal([]byte(authorsJSON), &b.Authors); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(subjectsJSON), &b.Subjects); err != nil {
		return nil, err
	}

	b.StartedAt, err = parseNullableTime(startedAt)
	if err != nil {
		return nil, err
	}
	b.CompletedAt, err = parseNullableTime(completedAt)
	if err != nil {
		return nil, err
	}
	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// marshalList marshals a string slice as JSON, defaulting nil to an empty array.
func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CreateBook inserts a new book.
// Returns store.ErrAlreadyExists if the owner already tracks the same work.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	authors, err := marshalList(book.Authors)
	if err != nil {
		return err
	}
	subjects, err := marshalList(book.Subjects)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, user_id, device_id, open_library_id, isbn, title, subtitle,
			authors, cover_image_url, description, published_date, page_count, subjects,
			reading_status, current_page, started_at, completed_at, rating, review, notes,
			is_favorite, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		nullString(book.UserID),
		nullString(book.DeviceID),
		book.OpenLibraryID,
		nullString(book.ISBN),
		book.Title,
		nullString(book.Subtitle),
		authors,
		nullString(book.CoverImageURL),
		nullString(book.Description),
		nullString(book.PublishedDate),
		book.PageCount,
		subjects,
		string(book.ReadingStatus),
		book.CurrentPage,
		nullTimeString(book.StartedAt),
		nullTimeString(book.CompletedAt),
		nullInt(book.Rating),
		nullString(book.Review),
		nullString(book.Notes),
		boolToInt(book.IsFavorite),
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists.WithMessage("Book already in your library")
		}
		return err
	}
	return nil
}

// GetBook retrieves a single book scoped to the owner. A book that exists but
// belongs to someone else is indistinguishable from a missing one: both
// return store.ErrNotFound.
func (s *Store) GetBook(ctx context.Context, owner identity.Owner, id string) (*domain.Book, error) {
	clause, args, err := ownerClause(owner, "")
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ? AND `+clause,
		append([]any{id}, args...)...,
	)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("Book not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// FindBookByWork returns the owner's copy of an Open Library work, or
// store.ErrNotFound when the owner does not track it.
func (s *Store) FindBookByWork(ctx context.Context, owner identity.Owner, openLibraryID string) (*domain.Book, error) {
	clause, args, err := ownerClause(owner, "")
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE open_library_id = ? AND `+clause,
		append([]any{openLibraryID}, args...)...,
	)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("Book not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns one page of the owner's books plus the total count
// matching the filter.
func (s *Store) ListBooks(ctx context.Context, owner identity.Owner, filter store.BookFilter) ([]*domain.Book, int, error) {
	clause, args, err := ownerClause(owner, "")
	if err != nil {
		return nil, 0, err
	}

	where := clause
	if filter.Status != "" {
		where += " AND reading_status = ?"
		args = append(args, filter.Status)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "DESC"
	if filter.Order == "asc" {
		order = "ASC"
	}

	// SortColumn comes from an allowlist, never from raw input.
	query := `SELECT ` + bookColumns + ` FROM books WHERE ` + where +
		` ORDER BY ` + filter.SortColumn() + ` ` + order +
		` LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// ListAllBooks returns every book the owner tracks, unordered pages aside.
// Used for stats computation.
func (s *Store) ListAllBooks(ctx context.Context, owner identity.Owner) ([]*domain.Book, error) {
	clause, args, err := ownerClause(owner, "")
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE `+clause+` ORDER BY created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// UpdateBook performs a full row update on an owned book.
// Returns store.ErrNotFound if the book does not exist or is not owned.
func (s *Store) UpdateBook(ctx context.Context, owner identity.Owner, book *domain.Book) error {
	clause, clauseArgs, err := ownerClause(owner, "")
	if err != nil {
		return err
	}

	authors, err := marshalList(book.Authors)
	if err != nil {
		return err
	}
	subjects, err := marshalList(book.Subjects)
	if err != nil {
		return err
	}

	args := []any{
		nullString(book.ISBN),
		book.Title,
		nullString(book.Subtitle),
		authors,
		nullString(book.CoverImageURL),
		nullString(book.Description),
		nullString(book.PublishedDate),
		book.PageCount,
		subjects,
		string(book.ReadingStatus),
		book.CurrentPage,
		nullTimeString(book.StartedAt),
		nullTimeString(book.CompletedAt),
		nullInt(book.Rating),
		nullString(book.Review),
		nullString(book.Notes),
		boolToInt(book.IsFavorite),
		formatTime(book.UpdatedAt),
		book.ID,
	}
	args = append(args, clauseArgs...)

	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			isbn = ?, title = ?, subtitle = ?, authors = ?, cover_image_url = ?,
			description = ?, published_date = ?, page_count = ?, subjects = ?,
			reading_status = ?, current_page = ?, started_at = ?, completed_at = ?,
			rating = ?, review = ?, notes = ?, is_favorite = ?, updated_at = ?
		WHERE id = ? AND `+clause,
		args...,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("Book not found")
	}
	return nil
}

// DeleteBook deletes an owned book. Sessions cascade with it.
// Returns store.ErrNotFound if the book does not exist or is not owned.
func (s *Store) DeleteBook(ctx context.Context, owner identity.Owner, id string) error {
	clause, args, err := ownerClause(owner, "")
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM books WHERE id = ? AND `+clause,
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
		return store.ErrNotFound.WithMessage("Book not found")
	}
	return nil
}

// CountDeviceBooks counts the unclaimed books tracked by an anonymous device.
func (s *Store) CountDeviceBooks(ctx context.Context, deviceID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE device_id = ? AND user_id IS NULL`,
		deviceID,
	).Scan(&count)
	return count, err
}

// ClaimDeviceBooks re-owns a device's anonymous books to a user. Books whose
// work the user already tracks are skipped rather than creating duplicates.
// Returns the number of books claimed.
func (s *Store) ClaimDeviceBooks(ctx context.Context, deviceID, userID string, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET user_id = ?, device_id = NULL, updated_at = ?
		WHERE device_id = ? AND user_id IS NULL
		AND open_library_id NOT IN (
			SELECT open_library_id FROM books WHERE user_id = ?
		)`,
		userID, formatTime(now), deviceID, userID,
	)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// CompletedInYear returns how many of the user's books were completed in the
// given year and the pages those books contributed.
func (s *Store) CompletedInYear(ctx context.Context, userID string, year int) (books, pages int, err error) {
	// completed_at is stored RFC3339, so the first four characters are the year.
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(page_count), 0) FROM books
		WHERE user_id = ? AND reading_status = ? AND substr(completed_at, 1, 4) = ?`,
		userID, string(domain.StatusCompleted), fmt.Sprintf("%04d", year),
	).Scan(&books, &pages)
	return books, pages, err
}
