package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBooks(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/search/books?q=hobbit", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total"])
	results := data["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "The Hobbit", results[0].(map[string]any)["title"])
}

func TestSearchBooks_MissingQuery(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/search/books", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Search query is required", decode(t, rec)["error"])
}

func TestGetWorkDetails(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/search/books/OL1W", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	details := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "The Hobbit", details["title"])
	assert.Equal(t, "There and back again.", details["description"])
	assert.Equal(t, float64(310), details["pageCount"])
}

func TestGetBookByISBN(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/search/isbn/9780261102217", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	details := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "The Hobbit", details["title"])
	assert.Equal(t, "9780261102217", details["isbn"])
}
