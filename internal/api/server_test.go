package api

import (
	"bytes"
	"encoding/hex"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// setupTestServer builds a server backed by a temporary store.
func setupTestServer(t *testing.T) (*Server, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "inkwell-api-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(hex.EncodeToString(authKey), 15*time.Minute)
	require.NoError(t, err)

	v := validation.New()
	log := logger.New(logger.Config{Writer: os.Stderr, Environment: "test", Level: slog.LevelError})

	authService := service.NewAuthService(s, tokenService, v, log.Logger)
	blogService := service.NewBlogService(s, v, log.Logger)

	server := NewServer(s, authService, blogService, log.Logger)

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}

	return server, cleanup
}

func doJSON(t *testing.T, server *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// signUpAndIn registers a user and returns their access token.
func signUpAndIn(t *testing.T, server *Server, email string) string {
	t.Helper()

	rec := doJSON(t, server, http.MethodPost, "/api/user/signup", "", map[string]string{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, server, http.MethodPost, "/api/user/signin", "", map[string]string{
		"email":    email,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token, ok := decodeBody(t, rec)["token"].(string)
	require.True(t, ok)
	return token
}

func createBlog(t *testing.T, server *Server, token, title string) string {
	t.Helper()

	rec := doJSON(t, server, http.MethodPost, "/api/blogs", token, map[string]any{
		"title": title,
		"body":  "some body",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data, ok := decodeBody(t, rec)["data"].(map[string]any)
	require.True(t, ok)
	blog, ok := data["blog"].(map[string]any)
	require.True(t, ok)
	id, ok := blog["id"].(string)
	require.True(t, ok)
	return id
}

func TestWelcomeAndHealth(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doJSON(t, server, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to the Blog Api", decodeBody(t, rec)["message"])

	rec = doJSON(t, server, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

func TestUnknownRouteAnswers200(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doJSON(t, server, http.MethodGet, "/no/such/route", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Page Not Found", decodeBody(t, rec)["message"])

	// Wrong method on a known route falls back the same way
	rec = doJSON(t, server, http.MethodDelete, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Page Not Found", decodeBody(t, rec)["message"])
}

func TestSignUpHandler(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doJSON(t, server, http.MethodPost, "/api/user/signup", "", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "secretsecret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "User created successfully", body["message"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", data["email"])
	assert.NotContains(t, data, "password_hash")
}

func TestSignUpHandler_DuplicateEmail(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	payload := map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "secretsecret",
	}

	rec := doJSON(t, server, http.MethodPost, "/api/user/signup", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/user/signup", "", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User with this email already exists", decodeBody(t, rec)["message"])
}

func TestSignInHandler_Failures(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doJSON(t, server, http.MethodPost, "/api/user/signup", "", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "secretsecret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/user/signin", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "secretsecret",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", decodeBody(t, rec)["message"])

	rec = doJSON(t, server, http.MethodPost, "/api/user/signin", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid Password", decodeBody(t, rec)["message"])
}

func TestRequireAuth(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	// No token
	rec := doJSON(t, server, http.MethodPost, "/api/blogs", "", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UnAuthorized", decodeBody(t, rec)["message"])

	// Garbage token
	rec = doJSON(t, server, http.MethodPost, "/api/blogs", "v4.local.garbage", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UnAuthorized", decodeBody(t, rec)["message"])
}

func TestCreateAndGetBlog(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	token := signUpAndIn(t, server, "author@example.com")
	blogID := createBlog(t, server, token, "My Post")

	// Public fetch, no token needed; fetch counts as a read
	rec := doJSON(t, server, http.MethodGet, "/api/blogs/"+blogID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "My Post", body["title"])
	assert.EqualValues(t, 1, body["read_count"])
	assert.Equal(t, "draft", body["state"])
}

func TestGetBlog_NotFoundAnswers200(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doJSON(t, server, http.MethodGet, "/api/blogs/blog-nonexistent", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Blog not found", decodeBody(t, rec)["message"])
}

func TestListBlogs(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	token := signUpAndIn(t, server, "author@example.com")
	createBlog(t, server, token, "One")
	createBlog(t, server, token, "Two")
	createBlog(t, server, token, "Three")

	rec := doJSON(t, server, http.MethodGet, "/api/blogs?page=1&pageSize=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var blogs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blogs))
	assert.Len(t, blogs, 2)

	// Bad query values fall back to defaults instead of failing
	rec = doJSON(t, server, http.MethodGet, "/api/blogs?page=banana", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blogs))
	assert.Len(t, blogs, 3)
}

func TestListUserBlogs(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	mine := signUpAndIn(t, server, "mine@example.com")
	theirs := signUpAndIn(t, server, "theirs@example.com")
	createBlog(t, server, mine, "Mine")
	createBlog(t, server, theirs, "Theirs")

	rec := doJSON(t, server, http.MethodGet, "/api/user/blogs", mine, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var blogs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blogs))
	require.Len(t, blogs, 1)
	assert.Equal(t, "Mine", blogs[0]["title"])

	// Requires auth
	rec = doJSON(t, server, http.MethodGet, "/api/user/blogs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEditBlogHandler(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	token := signUpAndIn(t, server, "author@example.com")
	blogID := createBlog(t, server, token, "My Post")

	rec := doJSON(t, server, http.MethodPut, "/api/blogs/"+blogID, token, map[string]any{
		"body": "revised body",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Blog Updated successfully", body["message"])
	data := body["data"].(map[string]any)
	updated := data["updatedBlog"].(map[string]any)
	assert.Equal(t, "revised body", updated["body"])
	// A body edit counts as a read
	assert.EqualValues(t, 1, updated["read_count"])
}

func TestEditBlogHandler_NotFound(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	token := signUpAndIn(t, server, "author@example.com")

	rec := doJSON(t, server, http.MethodPut, "/api/blogs/blog-nonexistent", token, map[string]any{
		"title": "ghost",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Blog not found", decodeBody(t, rec)["message"])
}

func TestEditBlogHandler_ForeignBlogAnswers500(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	owner := signUpAndIn(t, server, "owner@example.com")
	intruder := signUpAndIn(t, server, "intruder@example.com")
	blogID := createBlog(t, server, owner, "My Post")

	rec := doJSON(t, server, http.MethodPut, "/api/blogs/"+blogID, intruder, map[string]any{
		"title": "hijacked",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "You are not authorized to edit this blog", decodeBody(t, rec)["message"])
}

func TestDeleteBlogHandler(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	token := signUpAndIn(t, server, "author@example.com")
	blogID := createBlog(t, server, token, "My Post")

	rec := doJSON(t, server, http.MethodDelete, "/api/blogs/"+blogID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Blog deleted successfully.", decodeBody(t, rec)["message"])

	rec = doJSON(t, server, http.MethodDelete, "/api/blogs/"+blogID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Blog not found", decodeBody(t, rec)["error"])
}

func TestDeleteBlogHandler_Foreign(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	owner := signUpAndIn(t, server, "owner@example.com")
	intruder := signUpAndIn(t, server, "intruder@example.com")
	blogID := createBlog(t, server, owner, "My Post")

	rec := doJSON(t, server, http.MethodDelete, "/api/blogs/"+blogID, intruder, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden. You are not the owner of this blog.", decodeBody(t, rec)["error"])
}

func TestUpdateBlogStateHandler(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	token := signUpAndIn(t, server, "author@example.com")
	blogID := createBlog(t, server, token, "My Post")

	rec := doJSON(t, server, http.MethodPatch, "/api/blogs/"+blogID+"/state", token, map[string]string{
		"state": "published",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "published", decodeBody(t, rec)["state"])
}

func TestUpdateBlogStateHandler_Errors(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	token := signUpAndIn(t, server, "author@example.com")
	blogID := createBlog(t, server, token, "My Post")

	// Invalid target state answers 200 with a message
	rec := doJSON(t, server, http.MethodPatch, "/api/blogs/"+blogID+"/state", token, map[string]string{
		"state": "archived",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Invalid state", decodeBody(t, rec)["message"])

	// Missing blog answers 200 with a message too
	rec = doJSON(t, server, http.MethodPatch, "/api/blogs/blog-nonexistent/state", token, map[string]string{
		"state": "published",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Blog not found", decodeBody(t, rec)["message"])
}

func TestUpdateBlogStateHandler_NonOwnerCanPublish(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	owner := signUpAndIn(t, server, "owner@example.com")
	other := signUpAndIn(t, server, "other@example.com")
	blogID := createBlog(t, server, owner, "My Post")

	rec := doJSON(t, server, http.MethodPatch, "/api/blogs/"+blogID+"/state", other, map[string]string{
		"state": "published",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "published", decodeBody(t, rec)["state"])
}
