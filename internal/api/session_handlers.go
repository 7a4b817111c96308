package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnyfernandes/Shlf-Backend/internal/http/response"
	"github.com/johnyfernandes/Shlf-Backend/internal/service"
)

// handleCreateSession logs a reading session against one of the caller's
// books. The book's bookmark advances when the session reads past it.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	bookID := chi.URLParam(r, "bookID")
	if bookID == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	var req service.CreateSessionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	session, err := s.services.Sessions.CreateSession(ctx, owner, bookID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, session, s.logger)
}

// handleListBookSessions returns the sessions of one owned book.
func (s *Server) handleListBookSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	bookID := chi.URLParam(r, "bookID")
	if bookID == "" {
		response.BadRequest(w, "Book ID is required", s.logger)
		return
	}

	sessions, err := s.services.Sessions.ListBookSessions(ctx, owner, bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sessions, s.logger)
}

// handleListAllSessions returns all sessions across the caller's books.
func (s *Server) handleListAllSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	sessions, err := s.services.Sessions.ListAllSessions(ctx, owner)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sessions, s.logger)
}

// handleUpdateSession edits a session record. Editing never moves the
// book's bookmark.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Session ID is required", s.logger)
		return
	}

	var req service.UpdateSessionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	session, err := s.services.Sessions.UpdateSession(ctx, owner, id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, session, s.logger)
}

// handleDeleteSession removes a session record only.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := getOwner(ctx)

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Session ID is required", s.logger)
		return
	}

	if err := s.services.Sessions.DeleteSession(ctx, owner, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "Reading session deleted successfully", s.logger)
}
