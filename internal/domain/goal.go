package domain

import (
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/errors"
)

// ReadingGoal is a per-user yearly target. One goal per (user, year).
type ReadingGoal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Year        int       `json:"year"`
	TargetBooks int       `json:"targetBooks"`
	TargetPages *int      `json:"targetPages,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks the goal's targets.
func (g *ReadingGoal) Validate() error {
	if g.Year < 2000 || g.Year > 2100 {
		return errors.Validation("year must be between 2000 and 2100")
	}
	if g.TargetBooks < 1 || g.TargetBooks > 1000 {
		return errors.Validation("targetBooks must be between 1 and 1000")
	}
	if g.TargetPages != nil && *g.TargetPages < 0 {
		return errors.Validation("targetPages cannot be negative")
	}
	return nil
}

// GoalProgress pairs a goal with progress computed from the books the user
// completed in the goal's year.
type GoalProgress struct {
	Goal           ReadingGoal `json:"goal"`
	CompletedBooks int         `json:"completedBooks"`
	PagesRead      int         `json:"pagesRead"`
	BooksRemaining int         `json:"booksRemaining"`
	PercentBooks   int         `json:"percentBooks"`
}

// NewGoalProgress computes progress for a goal from completion counts.
func NewGoalProgress(goal ReadingGoal, completedBooks, pagesRead int) GoalProgress {
	remaining := goal.TargetBooks - completedBooks
	if remaining < 0 {
		remaining = 0
	}
	pct := 0
	if goal.TargetBooks > 0 {
		pct = completedBooks * 100 / goal.TargetBooks
		if pct > 100 {
			pct = 100
		}
	}
	return GoalProgress{
		Goal:           goal,
		CompletedBooks: completedBooks,
		PagesRead:      pagesRead,
		BooksRemaining: remaining,
		PercentBooks:   pct,
	}
}
