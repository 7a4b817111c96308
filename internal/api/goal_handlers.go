package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/johnyfernandes/Shlf-Backend/internal/http/response"
	"github.com/johnyfernandes/Shlf-Backend/internal/service"
)

// handleSetGoal creates or replaces the yearly reading goal.
func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req service.SetGoalRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	goal, created, err := s.services.Goals.SetGoal(ctx, userID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if created {
		response.Created(w, goal, s.logger)
		return
	}
	response.Success(w, goal, s.logger)
}

// handleListGoals returns all of the user's reading goals.
func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	goals, err := s.services.Goals.ListGoals(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, goals, s.logger)
}

// handleGetGoalProgress returns the goal for a year with computed progress.
func (s *Server) handleGetGoalProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	year, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid year", s.logger)
		return
	}

	progress, err := s.services.Goals.GetGoalProgress(ctx, userID, year)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, progress, s.logger)
}

// handleDeleteGoal removes a reading goal.
func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Goal ID is required", s.logger)
		return
	}

	if err := s.services.Goals.DeleteGoal(ctx, userID, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "Reading goal deleted successfully", s.logger)
}
