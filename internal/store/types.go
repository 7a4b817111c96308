package store

import "github.com/johnyfernandes/Shlf-Backend/internal/domain"

// SessionBook is the summary of a session's parent book returned when
// listing sessions across a whole library.
type SessionBook struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	CoverImageURL string   `json:"coverImageUrl,omitempty"`
}

// SessionWithBook pairs a reading session with its parent book summary.
type SessionWithBook struct {
	*domain.ReadingSession
	Book SessionBook `json:"book"`
}
