package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func setupTestHandler(t *testing.T) *Handler {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return NewHandler(s)
}

// userRequest runs an echo request against the handler under test and returns
// the recorder. Path params come from id when non-empty.
func userRequest(t *testing.T, h *Handler, fn echo.HandlerFunc, method, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	if err := fn(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestCreateUserHandler(t *testing.T) {
	h := setupTestHandler(t)

	body := `{"email":"ada@example.com","name":"Ada","role":"admin","password":"hunter2hunter2"}`
	rec := userRequest(t, h, h.CreateUser, http.MethodPost, "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var view UserView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if view.ID == "" || view.Email != "ada@example.com" || view.Role != RoleAdmin {
		t.Errorf("unexpected view: %+v", view)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("response must not expose the password hash")
	}
}

func TestCreateUserValidation(t *testing.T) {
	h := setupTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"role":"admin","password":"hunter2hunter2"}`},
		{"bad email", `{"email":"not-an-email","role":"admin","password":"hunter2hunter2"}`},
		{"bad role", `{"email":"a@example.com","role":"superuser","password":"hunter2hunter2"}`},
		{"missing password", `{"email":"a@example.com","role":"admin"}`},
		{"short password", `{"email":"a@example.com","role":"admin","password":"short"}`},
		{"long name", `{"email":"a@example.com","name":"` + strings.Repeat("x", 200) + `","role":"admin","password":"hunter2hunter2"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := userRequest(t, h, h.CreateUser, http.MethodPost, "", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	h := setupTestHandler(t)

	body := `{"email":"ada@example.com","role":"admin","password":"hunter2hunter2"}`
	if rec := userRequest(t, h, h.CreateUser, http.MethodPost, "", body); rec.Code != http.StatusCreated {
		t.Fatalf("first create failed: %d", rec.Code)
	}
	rec := userRequest(t, h, h.CreateUser, http.MethodPost, "", body)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestListUsersHandler(t *testing.T) {
	h := setupTestHandler(t)

	for _, email := range []string{"zoe@example.com", "ada@example.com"} {
		if _, err := h.store.Create(email, "", RoleViewer, "hunter2hunter2"); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	rec := userRequest(t, h, h.ListUsers, http.MethodGet, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var views []UserView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(views) != 2 || views[0].Email != "ada@example.com" {
		t.Errorf("unexpected list: %+v", views)
	}
}

func TestGetUserHandler(t *testing.T) {
	h := setupTestHandler(t)

	u, err := h.store.Create("ada@example.com", "Ada", RoleEditor, "hunter2hunter2")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	rec := userRequest(t, h, h.GetUser, http.MethodGet, u.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = userRequest(t, h, h.GetUser, http.MethodGet, "missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestUpdateUserHandler(t *testing.T) {
	h := setupTestHandler(t)

	u, err := h.store.Create("ada@example.com", "Ada", RoleEditor, "hunter2hunter2")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	body := `{"email":"ada@example.org","name":"Ada L.","role":"admin"}`
	rec := userRequest(t, h, h.UpdateUser, http.MethodPut, u.ID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var view UserView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if view.Email != "ada@example.org" || view.Role != RoleAdmin {
		t.Errorf("unexpected view: %+v", view)
	}

	// password untouched when the request leaves it empty
	stored, err := h.store.Get(u.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.PasswordHash != u.PasswordHash {
		t.Error("update without password must keep the existing hash")
	}

	rec = userRequest(t, h, h.UpdateUser, http.MethodPut, "missing", body)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDeleteUserHandler(t *testing.T) {
	h := setupTestHandler(t)

	u, err := h.store.Create("ada@example.com", "Ada", RoleAdmin, "hunter2hunter2")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	rec := userRequest(t, h, h.DeleteUser, http.MethodDelete, u.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = userRequest(t, h, h.DeleteUser, http.MethodDelete, u.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
