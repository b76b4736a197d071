package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/library-be/internal/auth"
	"github.com/hongminglow/library-be/internal/config"
	"github.com/hongminglow/library-be/internal/models"
	"github.com/hongminglow/library-be/internal/models/dto"
	"github.com/hongminglow/library-be/internal/storage/memory"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t       *testing.T
	baseURL string
}

func (c client) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (c client) login(username, password string) string {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(c.t, http.StatusOK, status, env.Message)
	var out dto.LoginResponse
	require.NoError(c.t, json.Unmarshal(env.Data, &out))
	return out.Token
}

func setup(t *testing.T) client {
	t.Helper()
	cfg := config.Config{
		JWTSecret:   "test-secret",
		JWTIssuer:   "library-test",
		JWTTTL:      time.Hour,
		CORSOrigins: []string{"*"},
		LoanPeriod:  14 * 24 * time.Hour,
	}
	store := memory.NewStore()
	svc := NewServices(cfg, store)

	_, err := svc.Auth.EnsureAdmin(context.Background(), auth.RegisterInput{
		Username: "root", Email: "root@library.test", Password: "rootpassword",
	})
	require.NoError(t, err)

	ts := httptest.NewServer(Handler(cfg, store, svc))
	t.Cleanup(ts.Close)
	return client{t: t, baseURL: ts.URL}
}

func TestHealth(t *testing.T) {
	c := setup(t)
	status, env := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", env.Message)
}

func TestRegisterAndLogin(t *testing.T) {
	c := setup(t)

	status, env := c.do(http.MethodPost, "/auth/registerNormalUser", "", map[string]string{
		"username": "ana", "email": "ana@library.test", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.NotContains(t, string(env.Data), "password")
	assert.NotContains(t, string(env.Data), "$2a$")
	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "ana", user.Username)
	assert.Equal(t, []string{models.RoleUser}, user.Roles)

	status, _ = c.do(http.MethodPost, "/auth/registerNormalUser", "", map[string]string{
		"username": "ana", "email": "again@library.test", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = c.do(http.MethodPost, "/auth/registerNormalUser", "", map[string]string{
		"username": "bo", "email": "not-an-email", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "ana", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "ana", "password": "password123"})
	require.Equal(t, http.StatusOK, status)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, "ana", login.Username)
	assert.Equal(t, []string{models.RoleUser}, login.Roles)
	assert.NotEmpty(t, login.Token)
}

func TestAdminRegistrationRequiresAdmin(t *testing.T) {
	c := setup(t)
	body := map[string]string{"username": "librarian", "email": "lib@library.test", "password": "password123"}

	status, _ := c.do(http.MethodPost, "/auth/registerAdminUser", "", body)
	assert.Equal(t, http.StatusUnauthorized, status)

	c.do(http.MethodPost, "/auth/registerNormalUser", "", map[string]string{"username": "ana", "email": "ana@library.test", "password": "password123"})
	status, _ = c.do(http.MethodPost, "/auth/registerAdminUser", c.login("ana", "password123"), body)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := c.do(http.MethodPost, "/auth/registerAdminUser", c.login("root", "rootpassword"), body)
	require.Equal(t, http.StatusOK, status)
	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, []string{models.RoleAdmin, models.RoleUser}, user.Roles)
}

func TestBookRoutes(t *testing.T) {
	c := setup(t)
	admin := c.login("root", "rootpassword")
	c.do(http.MethodPost, "/auth/registerNormalUser", "", map[string]string{"username": "ana", "email": "ana@library.test", "password": "password123"})
	user := c.login("ana", "password123")

	book := map[string]any{"title": "Dune", "author": "Herbert", "isbn": "978-0441013593", "quantity": 2, "isAvailable": false}

	status, _ := c.do(http.MethodPost, "/books/addbook", "", book)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = c.do(http.MethodPost, "/books/addbook", user, book)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = c.do(http.MethodPost, "/books/addbook", "garbage-token", book)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := c.do(http.MethodPost, "/books/addbook", admin, book)
	require.Equal(t, http.StatusOK, status)
	var created models.Book
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 2, created.Quantity)
	assert.True(t, created.Available, "availability follows quantity")

	status, _ = c.do(http.MethodPost, "/books/addbook", admin, map[string]any{"title": "x", "author": "y", "isbn": "z", "quantity": -1})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = c.do(http.MethodPost, "/books/addbook", admin, map[string]any{"title": "x", "author": "y", "isbn": "z"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = c.do(http.MethodGet, "/books/getallbooks", "", nil)
	require.Equal(t, http.StatusOK, status)
	var books []models.Book
	require.NoError(t, json.Unmarshal(env.Data, &books))
	assert.Len(t, books, 1)

	path := fmt.Sprintf("/books/getbookbyid/%d", created.ID)
	status, _ = c.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = c.do(http.MethodGet, "/books/getbookbyid/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = c.do(http.MethodGet, "/books/getbookbyid/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	update := map[string]any{"title": "Dune", "author": "Frank Herbert", "isbn": "978-0441013593", "quantity": 0}
	status, env = c.do(http.MethodPut, fmt.Sprintf("/books/updatebook/%d", created.ID), admin, update)
	require.Equal(t, http.StatusOK, status)
	var updated models.Book
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Frank Herbert", updated.Author)
	assert.False(t, updated.Available)
	status, _ = c.do(http.MethodPut, "/books/updatebook/999", admin, update)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do(http.MethodDelete, fmt.Sprintf("/books/deletebook/%d", created.ID), user, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = c.do(http.MethodDelete, fmt.Sprintf("/books/deletebook/%d", created.ID), admin, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = c.do(http.MethodDelete, fmt.Sprintf("/books/deletebook/%d", created.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestIssueReturnFlow(t *testing.T) {
	c := setup(t)
	admin := c.login("root", "rootpassword")
	c.do(http.MethodPost, "/auth/registerNormalUser", "", map[string]string{"username": "ana", "email": "ana@library.test", "password": "password123"})
	c.do(http.MethodPost, "/auth/registerNormalUser", "", map[string]string{"username": "bob", "email": "bob@library.test", "password": "password123"})
	ana := c.login("ana", "password123")
	bob := c.login("bob", "password123")

	_, env := c.do(http.MethodPost, "/books/addbook", admin, map[string]any{"title": "Dune", "author": "Herbert", "isbn": "1", "quantity": 1})
	var book models.Book
	require.NoError(t, json.Unmarshal(env.Data, &book))
	issuePath := fmt.Sprintf("/issuerecords/issue/%d", book.ID)

	status, _ := c.do(http.MethodPost, issuePath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = c.do(http.MethodPost, issuePath, ana, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var issued dto.IssueRecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &issued))
	assert.False(t, issued.Returned)
	assert.Equal(t, 0, issued.Book.Quantity)
	assert.False(t, issued.Book.Available)
	assert.Equal(t, 14*24*time.Hour, issued.DueDate.Sub(issued.IssueDate))

	status, _ = c.do(http.MethodPost, issuePath, bob, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	status, _ = c.do(http.MethodPost, "/issuerecords/issue/999", ana, nil)
	assert.Equal(t, http.StatusNotFound, status)

	returnPath := fmt.Sprintf("/issuerecords/return/%d", issued.ID)
	status, _ = c.do(http.MethodPost, returnPath, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = c.do(http.MethodPost, returnPath, ana, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var returned dto.IssueRecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &returned))
	assert.True(t, returned.Returned)
	assert.NotNil(t, returned.ReturnDate)
	assert.Equal(t, 1, returned.Book.Quantity)
	assert.True(t, returned.Book.Available)

	status, _ = c.do(http.MethodPost, returnPath, ana, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	status, _ = c.do(http.MethodPost, "/issuerecords/return/999", ana, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do(http.MethodDelete, fmt.Sprintf("/books/deletebook/%d", book.ID), admin, nil)
	assert.Equal(t, http.StatusConflict, status, "books with history are kept")
}
