package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	token := ts.register(t, "alice@example.com", "alice")
	assert.NotEmpty(t, token)

	rec := ts.do(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decode(t, rec)["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
}

func TestRegister_ValidationError(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/auth/register", map[string]any{
		"email":    "not-an-email",
		"username": "alice",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := decode(t, rec)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "VALIDATION", envelope["code"])
	details := envelope["details"].(map[string]any)
	assert.Contains(t, details, "email")
}

func TestRegister_ClaimsDeviceBooks(t *testing.T) {
	ts := newTestServer(t)

	ts.createBook(t, "", "device-1", "/works/OL1W", "Anonymous Book", 200)

	rec := ts.do(t, http.MethodPost, "/auth/register", map[string]any{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "password123",
	}, deviceHeader("device-1"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	token := decode(t, rec)["data"].(map[string]any)["token"].(string)

	// The account now sees the device's book.
	rec = ts.do(t, http.MethodGet, "/books/", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	books := data["books"].([]any)
	assert.Len(t, books, 1)
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@example.com", "alice")

	rec := ts.do(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong-password",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	envelope := decode(t, rec)
	assert.Equal(t, "Invalid credentials", envelope["error"])
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "alice@example.com", "alice")

	rec := ts.do(t, http.MethodGet, "/auth/profile", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	// The password hash never leaves the server.
	assert.NotContains(t, rec.Body.String(), "password")

	rec = ts.do(t, http.MethodPut, "/auth/profile", map[string]any{
		"firstName": "Alice",
		"bio":       "Reads a lot.",
	}, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user = decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "Alice", user["firstName"])
	assert.Equal(t, "Reads a lot.", user["bio"])
}

func TestProfile_RequiresAccount(t *testing.T) {
	ts := newTestServer(t)

	// No credentials.
	rec := ts.do(t, http.MethodGet, "/auth/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A device ID is not an account.
	rec = ts.do(t, http.MethodGet, "/auth/profile", nil, deviceHeader("device-1"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
