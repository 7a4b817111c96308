package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/id"
	"github.com/johnyfernandes/Shlf-Backend/internal/store"
	"github.com/johnyfernandes/Shlf-Backend/internal/store/sqlite"
	"github.com/johnyfernandes/Shlf-Backend/internal/validation"
)

// GoalService manages yearly reading goals. Goals are account-only; one
// goal per user per year.
type GoalService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewGoalService creates a new goal service.
func NewGoalService(store *sqlite.Store, validator *validation.Validator, logger *slog.Logger) *GoalService {
	return &GoalService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// SetGoalRequest contains a yearly target.
type SetGoalRequest struct {
	Year        int  `json:"year" validate:"required,gte=2000,lte=2100"`
	TargetBooks int  `json:"targetBooks" validate:"required,gte=1,lte=1000"`
	TargetPages *int `json:"targetPages" validate:"omitempty,gte=0"`
}

// SetGoal creates the user's goal for the year, or updates it when one
// already exists. Returns the goal and whether it was newly created.
func (s *GoalService) SetGoal(ctx context.Context, userID string, req SetGoalRequest) (*domain.ReadingGoal, bool, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, false, err
	}

	now := time.Now()

	existing, err := s.store.GetGoalByYear(ctx, userID, req.Year)
	if err == nil {
		existing.TargetBooks = req.TargetBooks
		existing.TargetPages = req.TargetPages
		existing.UpdatedAt = now
		if err := s.store.UpdateGoal(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if !stderrors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	goalID, err := id.Generate("goal")
	if err != nil {
		return nil, false, fmt.Errorf("generate goal ID: %w", err)
	}

	goal := &domain.ReadingGoal{
		ID:          goalID,
		UserID:      userID,
		Year:        req.Year,
		TargetBooks: req.TargetBooks,
		TargetPages: req.TargetPages,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := goal.Validate(); err != nil {
		return nil, false, err
	}

	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, false, err
	}

	s.logger.Info("reading goal set",
		"user_id", userID,
		"year", goal.Year,
		"target_books", goal.TargetBooks)

	return goal, true, nil
}

// ListGoals returns all of the user's goals, newest year first.
func (s *GoalService) ListGoals(ctx context.Context, userID string) ([]*domain.ReadingGoal, error) {
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []*domain.ReadingGoal{}
	}
	return goals, nil
}

// GetGoalProgress returns the user's goal for a year together with progress
// computed from the books completed in that year.
func (s *GoalService) GetGoalProgress(ctx context.Context, userID string, year int) (*domain.GoalProgress, error) {
	goal, err := s.store.GetGoalByYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	completedBooks, pagesRead, err := s.store.CompletedInYear(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("compute goal progress: %w", err)
	}

	progress := domain.NewGoalProgress(*goal, completedBooks, pagesRead)
	return &progress, nil
}

// DeleteGoal removes one of the user's goals.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	return s.store.DeleteGoal(ctx, userID, goalID)
}
