package users

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Handler serves the user-management CRUD API.
type Handler struct {
	store *Store
}

// NewHandler creates a user API handler backed by the given store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the CRUD endpoints on g. The caller is expected to
// guard the group with its admin authentication middleware.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListUsers)
	g.POST("", h.CreateUser)
	g.GET("/:id", h.GetUser)
	g.PUT("/:id", h.UpdateUser)
	g.DELETE("/:id", h.DeleteUser)
}

// UserView is the public shape of a user. Password hashes stay internal.
type UserView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func viewOf(u User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserRequest is the expected request body for create and update.
type UserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// Input validation limits.
const (
	maxEmailLen    = 254
	maxNameLen     = 128
	minPasswordLen = 8
	maxPasswordLen = 128
)

func validRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// validateUserRequest checks field lengths and allowed roles. Password rules
// apply only when a password is supplied; requirePassword marks creation.
func validateUserRequest(req *UserRequest, requirePassword bool) error {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if req.Email == "" || len(req.Email) > maxEmailLen || !strings.Contains(req.Email, "@") {
		return fmt.Errorf("email must be a valid address of at most %d characters", maxEmailLen)
	}
	if len(req.Name) > maxNameLen {
		return fmt.Errorf("name exceeds maximum length of %d", maxNameLen)
	}
	if !validRole(req.Role) {
		return fmt.Errorf("role must be one of %s, %s, %s", RoleAdmin, RoleEditor, RoleViewer)
	}
	if requirePassword && req.Password == "" {
		return fmt.Errorf("password is required")
	}
	if req.Password != "" && (len(req.Password) < minPasswordLen || len(req.Password) > maxPasswordLen) {
		return fmt.Errorf("password must be between %d and %d characters", minPasswordLen, maxPasswordLen)
	}
	return nil
}

// ListUsers returns all users.
func (h *Handler) ListUsers(c echo.Context) error {
	all := h.store.List()
	views := make([]UserView, len(all))
	for i, u := range all {
		views[i] = viewOf(u)
	}
	return c.JSON(http.StatusOK, views)
}

// GetUser returns a single user by ID.
func (h *Handler) GetUser(c echo.Context) error {
	u, err := h.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, viewOf(u))
}

// CreateUser adds a new user.
func (h *Handler) CreateUser(c echo.Context) error {
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := validateUserRequest(&req, true); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	u, err := h.store.Create(req.Email, req.Name, req.Role, req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "email already exists"})
		}
		return err
	}
	return c.JSON(http.StatusCreated, viewOf(u))
}

// UpdateUser modifies an existing user. An empty password keeps the current one.
func (h *Handler) UpdateUser(c echo.Context) error {
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := validateUserRequest(&req, false); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	u, err := h.store.Update(c.Param("id"), req.Email, req.Name, req.Role, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		case errors.Is(err, ErrDuplicateEmail):
			return c.JSON(http.StatusConflict, map[string]string{"error": "email already exists"})
		}
		return err
	}
	return c.JSON(http.StatusOK, viewOf(u))
}

// DeleteUser removes a user by ID.
func (h *Handler) DeleteUser(c echo.Context) error {
	if err := h.store.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
