package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/errors"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
)

func TestGoalService_SetGoal_Upsert(t *testing.T) {
	env := newTestEnv(t)
	svc := env.goalService()
	ctx := context.Background()
	u := env.createUser(t, "alice@example.com", "alice")

	goal, created, err := svc.SetGoal(ctx, u.ID, SetGoalRequest{Year: 2026, TargetBooks: 12})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 12, goal.TargetBooks)

	// Setting the same year again updates in place.
	pages := 4000
	updated, created, err := svc.SetGoal(ctx, u.ID, SetGoalRequest{Year: 2026, TargetBooks: 24, TargetPages: &pages})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, goal.ID, updated.ID)
	assert.Equal(t, 24, updated.TargetBooks)
	require.NotNil(t, updated.TargetPages)
	assert.Equal(t, 4000, *updated.TargetPages)

	goals, err := svc.ListGoals(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}

func TestGoalService_SetGoal_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.goalService()
	ctx := context.Background()
	u := env.createUser(t, "alice@example.com", "alice")

	tests := []struct {
		name string
		req  SetGoalRequest
	}{
		{"year too early", SetGoalRequest{Year: 1990, TargetBooks: 12}},
		{"year too late", SetGoalRequest{Year: 2200, TargetBooks: 12}},
		{"zero target", SetGoalRequest{Year: 2026, TargetBooks: 0}},
		{"target too high", SetGoalRequest{Year: 2026, TargetBooks: 1001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SetGoal(ctx, u.ID, tt.req)
			assert.True(t, errors.Is(err, errors.ErrValidation), "got %v", err)
		})
	}
}

func TestGoalService_GetGoalProgress(t *testing.T) {
	env := newTestEnv(t)
	svc := env.goalService()
	ctx := context.Background()
	u := env.createUser(t, "alice@example.com", "alice")
	owner := identity.User(u.ID)

	_, _, err := svc.SetGoal(ctx, u.ID, SetGoalRequest{Year: 2026, TargetBooks: 4})
	require.NoError(t, err)

	// Two books completed in the goal year, one outside it.
	for i, spec := range []struct {
		work string
		year int
	}{
		{"/works/OL1W", 2026},
		{"/works/OL2W", 2026},
		{"/works/OL3W", 2024},
	} {
		book := env.createBook(t, u.ID, "", spec.work, "Book", 200+i)
		completedAt := time.Date(spec.year, 6, 1, 12, 0, 0, 0, time.UTC)
		book.ReadingStatus = domain.StatusCompleted
		book.CompletedAt = &completedAt
		book.CurrentPage = book.PageCount
		require.NoError(t, env.store.UpdateBook(ctx, owner, book))
	}

	progress, err := svc.GetGoalProgress(ctx, u.ID, 2026)
	require.NoError(t, err)

	assert.Equal(t, 2, progress.CompletedBooks)
	assert.Equal(t, 401, progress.PagesRead)
	assert.Equal(t, 2, progress.BooksRemaining)
	assert.Equal(t, 50, progress.PercentBooks)
}

func TestGoalService_GetGoalProgress_NoGoal(t *testing.T) {
	env := newTestEnv(t)
	svc := env.goalService()
	u := env.createUser(t, "alice@example.com", "alice")

	_, err := svc.GetGoalProgress(context.Background(), u.ID, 2026)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Goal not found for this year")
}

func TestGoalService_DeleteGoal(t *testing.T) {
	env := newTestEnv(t)
	svc := env.goalService()
	ctx := context.Background()
	u := env.createUser(t, "alice@example.com", "alice")

	goal, _, err := svc.SetGoal(ctx, u.ID, SetGoalRequest{Year: 2026, TargetBooks: 12})
	require.NoError(t, err)

	// The wrong user cannot delete it.
	other := env.createUser(t, "bob@example.com", "bob")
	require.Error(t, svc.DeleteGoal(ctx, other.ID, goal.ID))

	require.NoError(t, svc.DeleteGoal(ctx, u.ID, goal.ID))

	goals, err := svc.ListGoals(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, goals)
}
