// Package users provides the user-management API and its JSON-file backed
// store. Accounts live in a single users.json file so small sites can be
// administered (and inspected) without a database.
package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNotFound is returned when no user exists for the given ID.
	ErrNotFound = errors.New("users: not found")
	// ErrDuplicateEmail is returned when an email is already taken.
	ErrDuplicateEmail = errors.New("users: email already exists")
)

// Recognised roles. Role checks beyond membership are the host's business.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// User is an account record as persisted in users.json. The bcrypt hash
// never leaves the store through the HTTP API (see View).
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type userFile struct {
	Users []User `json:"users"`
}

// Store is a mutex-guarded user collection persisted to a JSON file.
type Store struct {
	mu    sync.RWMutex
	path  string
	users map[string]User // keyed by ID
}

// NewStore loads (or initializes) the user store at path. A missing file is
// treated as an empty store; the file is created on the first write.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  path,
		users: make(map[string]User),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Reload replaces the in-memory state with the file contents. It is also
// called by the watcher when users.json changes on disk.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read user store: %w", err)
	}

	var file userFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse user store: %w", err)
	}

	users := make(map[string]User, len(file.Users))
	for _, u := range file.Users {
		users[u.ID] = u
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// persist writes the current state to disk. Callers must hold the write lock.
func (s *Store) persist() error {
	file := userFile{Users: s.sortedLocked()}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Store) sortedLocked() []User {
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// List returns all users ordered by email.
func (s *Store) List() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Get returns a user by ID.
func (s *Store) Get(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Store) emailTakenLocked(email, exceptID string) bool {
	for _, u := range s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// Create adds a new user with a bcrypt-hashed password and persists the store.
func (s *Store) Create(email, name, role, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTakenLocked(email, "") {
		return User{}, ErrDuplicateEmail
	}

	now := time.Now().UTC().Format(time.RFC3339)
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	if err := s.persist(); err != nil {
		delete(s.users, u.ID)
		return User{}, err
	}
	return u, nil
}

// Update modifies a user's email, name, and role. A non-empty password
// replaces the stored hash.
func (s *Store) Update(id, email, name, role, password string) (User, error) {
	var hash string
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		hash = string(h)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if s.emailTakenLocked(email, id) {
		return User{}, ErrDuplicateEmail
	}

	prev := u
	u.Email = email
	u.Name = name
	u.Role = role
	if hash != "" {
		u.PasswordHash = hash
	}
	u.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	s.users[id] = u
	if err := s.persist(); err != nil {
		s.users[id] = prev
		return User{}, err
	}
	return u, nil
}

// Delete removes a user by ID and persists the store.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	if err := s.persist(); err != nil {
		s.users[id] = u
		return err
	}
	return nil
}
