package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/store"
)

// collectionColumns is the ordered list of columns selected in collection
// queries. Must match the scan order in scanCollection.
const collectionColumns = `id, user_id, name, icon, color, sort_order, created_at, updated_at`

func scanCollection(scanner interface{ Scan(dest ...any) error }) (*domain.Collection, error) {
	var c domain.Collection

	var createdAt, updatedAt string

	err := scanner.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Icon,
		&c.Color,
		&c.SortOrder,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Books = []domain.CollectionBook{}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCollection inserts a new collection.
func (s *Store) CreateCollection(ctx context.Context, c *domain.Collection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (
			id, user_id, name, icon, color, sort_order, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.UserID,
		c.Name,
		c.Icon,
		c.Color,
		c.SortOrder,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	return err
}

// GetCollection retrieves one of the user's collections with its books.
// Returns store.ErrNotFound if the collection does not exist for the user.
func (s *Store) GetCollection(ctx context.Context, userID, id string) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id = ? AND user_id = ?`,
		id, userID)

	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("Collection not found")
	}
	if err != nil {
		return nil, err
	}

	books, err := s.collectionBooks(ctx, []string{c.ID})
	if err != nil {
		return nil, err
	}
	if b, ok := books[c.ID]; ok {
		c.Books = b
	}
	return c, nil
}

// ListCollections returns all of the user's collections with their books,
// ordered by sort order then creation time.
func (s *Store) ListCollections(ctx context.Context, userID string) ([]*domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+collectionColumns+` FROM collections
		WHERE user_id = ? ORDER BY sort_order ASC, created_at ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*domain.Collection
	var ids []string
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return collections, nil
	}

	books, err := s.collectionBooks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range collections {
		if b, ok := books[c.ID]; ok {
			c.Books = b
		}
	}
	return collections, nil
}

// collectionBooks loads the short book forms for a set of collections,
// keyed by collection ID.
func (s *Store) collectionBooks(ctx context.Context, collectionIDs []string) (map[string][]domain.CollectionBook, error) {
	query := `
		SELECT bc.collection_id, b.id, b.title, b.cover_image_url
		FROM book_collections bc
		JOIN books b ON b.id = bc.book_id
		WHERE bc.collection_id IN (?` + repeatPlaceholder(len(collectionIDs)-1) + `)
		ORDER BY bc.created_at ASC`

	args := make([]any, len(collectionIDs))
	for i, id := range collectionIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make(map[string][]domain.CollectionBook)
	for rows.Next() {
		var collectionID string
		var b domain.CollectionBook
		var cover sql.NullString
		if err := rows.Scan(&collectionID, &b.ID, &b.Title, &cover); err != nil {
			return nil, err
		}
		b.CoverImageURL = cover.String
		books[collectionID] = append(books[collectionID], b)
	}
	return books, rows.Err()
}

// repeatPlaceholder returns n copies of ", ?" for IN clauses.
func repeatPlaceholder(n int) string {
	out := make([]byte, 0, n*3)
	for range n {
		out = append(out, ", ?"...)
	}
	return string(out)
}

// UpdateCollection persists name, appearance, and sort order changes.
// Returns store.ErrNotFound if the collection does not exist for the user.
func (s *Store) UpdateCollection(ctx context.Context, c *domain.Collection) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE collections SET
			name = ?, icon = ?, color = ?, sort_order = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		c.Name,
		c.Icon,
		c.Color,
		c.SortOrder,
		formatTime(c.UpdatedAt),
		c.ID,
		c.UserID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("Collection not found")
	}
	return nil
}

// DeleteCollection deletes one of the user's collections. Memberships go
// with it via the join table's cascade.
func (s *Store) DeleteCollection(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM collections WHERE id = ? AND user_id = ?`,
		id, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("Collection not found")
	}
	return nil
}

// AddBookToCollection records a membership. Adding a book that is already
// in the collection is a no-op.
func (s *Store) AddBookToCollection(ctx context.Context, collectionID, bookID string, now time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO book_collections (book_id, collection_id, created_at)
		VALUES (?, ?, ?)`,
		bookID, collectionID, formatTime(now))
	return err
}

// RemoveBookFromCollection deletes a membership. Removing a book that is
// not in the collection is a no-op.
func (s *Store) RemoveBookFromCollection(ctx context.Context, collectionID, bookID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM book_collections WHERE book_id = ? AND collection_id = ?`,
		bookID, collectionID)
	return err
}
