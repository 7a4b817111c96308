package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnyfernandes/Shlf-Backend/internal/http/response"
	"github.com/johnyfernandes/Shlf-Backend/internal/service"
)

// handleCreateCollection creates an empty collection.
func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req service.CreateCollectionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	collection, err := s.services.Collections.CreateCollection(ctx, userID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, collection, s.logger)
}

// handleListCollections returns all of the user's collections with their books.
func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	collections, err := s.services.Collections.ListCollections(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, collections, s.logger)
}

// handleUpdateCollection applies a partial update to a collection.
func (s *Server) handleUpdateCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	collectionID := chi.URLParam(r, "collectionID")

	var req service.UpdateCollectionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	collection, err := s.services.Collections.UpdateCollection(ctx, userID, collectionID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, collection, s.logger)
}

// handleDeleteCollection removes a collection, leaving its books in the library.
func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	collectionID := chi.URLParam(r, "collectionID")

	if err := s.services.Collections.DeleteCollection(ctx, userID, collectionID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "Collection deleted", s.logger)
}

// handleAddBookToCollection puts one of the user's books into a collection.
func (s *Server) handleAddBookToCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	collectionID := chi.URLParam(r, "collectionID")

	var req service.AddCollectionBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.services.Collections.AddBook(ctx, userID, collectionID, req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "Book added to collection", s.logger)
}

// handleRemoveBookFromCollection takes a book out of a collection.
func (s *Server) handleRemoveBookFromCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	collectionID := chi.URLParam(r, "collectionID")
	bookID := chi.URLParam(r, "bookID")

	if err := s.services.Collections.RemoveBook(ctx, userID, collectionID, bookID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "Book removed from collection", s.logger)
}
