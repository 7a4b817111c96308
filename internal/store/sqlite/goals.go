package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/store"
)

// goalColumns is the ordered list of columns selected in goal queries.
// Must match the scan order in scanGoal.
const goalColumns = `id, user_id, year, target_books, target_pages, created_at, updated_at`

// scanGoal scans a sql.Row (or sql.Rows via its Scan method) into a domain.ReadingGoal.
func scanGoal(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingGoal, error) {
	var g domain.ReadingGoal

	var (
		targetPages sql.NullInt64
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&g.ID,
		&g.UserID,
		&g.Year,
		&g.TargetBooks,
		&targetPages,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.TargetPages = intPtr(targetPages)

	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	g.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

// CreateGoal inserts a new reading goal.
// Returns store.ErrAlreadyExists if the user already has a goal for the year.
func (s *Store) CreateGoal(ctx context.Context, goal *domain.ReadingGoal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_goals (
			id, user_id, year, target_books, target_pages, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		goal.ID,
		goal.UserID,
		goal.Year,
		goal.TargetBooks,
		nullInt(goal.TargetPages),
		formatTime(goal.CreatedAt),
		formatTime(goal.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists.WithMessage("Goal already set for this year")
		}
		return err
	}
	return nil
}

// UpdateGoal performs a full row update on an existing goal.
// Returns store.ErrNotFound if the goal does not exist for the user.
func (s *Store) UpdateGoal(ctx context.Context, goal *domain.ReadingGoal) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reading_goals SET
			target_books = ?, target_pages = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		goal.TargetBooks,
		nullInt(goal.TargetPages),
		formatTime(goal.UpdatedAt),
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("Goal not found")
	}
	return nil
}

// GetGoalByYear retrieves a user's goal for a specific year.
// Returns store.ErrNotFound if no goal is set for the year.
func (s *Store) GetGoalByYear(ctx context.Context, userID string, year int) (*domain.ReadingGoal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM reading_goals WHERE user_id = ? AND year = ?`,
		userID, year)

	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("Goal not found for this year")
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListGoals returns all of a user's goals, newest year first.
func (s *Store) ListGoals(ctx context.Context, userID string) ([]*domain.ReadingGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM reading_goals WHERE user_id = ? ORDER BY year DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.ReadingGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}

// DeleteGoal deletes a user's goal by ID.
// Returns store.ErrNotFound if the goal does not exist for the user.
func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM reading_goals WHERE id = ? AND user_id = ?`,
		id, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("Goal not found")
	}
	return nil
}
