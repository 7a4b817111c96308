package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnyfernandes/Shlf-Backend/internal/auth"
	"github.com/johnyfernandes/Shlf-Backend/internal/config"
	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/id"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/metadata/openlibrary"
	"github.com/johnyfernandes/Shlf-Backend/internal/service"
	"github.com/johnyfernandes/Shlf-Backend/internal/store/sqlite"
	"github.com/johnyfernandes/Shlf-Backend/internal/validation"
)

// testServer wraps a fully wired Server over a temp database.
type testServer struct {
	*Server
	store  *sqlite.Store
	tokens *auth.TokenService
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			CORSOrigins: []string{"*"},
		},
		Quota: config.QuotaConfig{
			DeviceBookLimit: 3,
		},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, testConfig())
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(path, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	keyHex := hex.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
	tokens, err := auth.NewTokenService(keyHex, time.Hour)
	require.NoError(t, err)

	validator := validation.New()

	upstream := httptest.NewServer(http.HandlerFunc(openLibraryStub))
	t.Cleanup(upstream.Close)
	olClient := openlibrary.NewClient(upstream.URL, upstream.URL, logger)
	t.Cleanup(olClient.Close)

	quota := service.NewQuotaService(st, cfg.Quota.DeviceBookLimit, logger)
	services := Services{
		Auth:        service.NewAuthService(st, tokens, validator, logger),
		Books:       service.NewBookService(st, quota, nil, validator, logger),
		Sessions:    service.NewSessionService(st, validator, logger),
		Goals:       service.NewGoalService(st, validator, logger),
		Collections: service.NewCollectionService(st, validator, logger),
		Quota:       quota,
		Metadata:    service.NewMetadataService(olClient),
	}

	srv := NewServer(services, identity.NewResolver(tokens), cfg, logger)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, store: st, tokens: tokens}
}

// openLibraryStub serves canned Open Library responses for search tests.
func openLibraryStub(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/search.json":
		io.WriteString(w, `{
			"numFound": 1,
			"docs": [{"key": "/works/OL1W", "title": "The Hobbit", "author_name": ["J.R.R. Tolkien"], "first_publish_year": 1937}]
		}`)
	case r.URL.Path == "/works/OL1W.json":
		io.WriteString(w, `{"key": "/works/OL1W", "title": "The Hobbit", "description": "There and back again."}`)
	case r.URL.Path == "/works/OL1W/editions.json":
		io.WriteString(w, `{"entries": [{"number_of_pages": 310, "isbn_13": ["9780261102217"]}]}`)
	case r.URL.Path == "/isbn/9780261102217.json":
		io.WriteString(w, `{"title": "The Hobbit", "number_of_pages": 310, "isbn_13": ["9780261102217"], "works": [{"key": "/works/OL1W"}]}`)
	default:
		http.NotFound(w, r)
	}
}

// do sends a request through the server and returns the recorder.
func (ts *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals the response envelope into a generic map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

// register creates an account through the API and returns its token.
func (ts *testServer) register(t *testing.T, email, username string) string {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/auth/register", map[string]any{
		"email":    email,
		"username": username,
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decode(t, rec)["data"].(map[string]any)
	return data["token"].(string)
}

// bearer builds an Authorization header map for the given token.
func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// deviceHeader builds an X-Device-ID header map.
func deviceHeader(deviceID string) map[string]string {
	return map[string]string{"X-Device-ID": deviceID}
}

// createBook inserts a book directly into the store.
func (ts *testServer) createBook(t *testing.T, userID, deviceID, workID, title string, pageCount int) *domain.Book {
	t.Helper()

	now := time.Now()
	b := &domain.Book{
		ID:            id.MustGenerate("book"),
		UserID:        userID,
		DeviceID:      deviceID,
		OpenLibraryID: workID,
		Title:         title,
		Authors:       []string{"Test Author"},
		PageCount:     pageCount,
		ReadingStatus: domain.StatusWantToRead,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, ts.store.CreateBook(context.Background(), b))
	return b
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decode(t, rec)
	assert.Equal(t, true, envelope["success"])
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "healthy", data["status"])
}

func TestUnknownRouteReturns404(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
