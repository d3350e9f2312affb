// Package session holds the authenticated identity of one client session:
// the bearer token, the role-scoped identity ID, and the university scope.
// It is the single source of truth for "who is logged in, as what role,
// scoped to which university" — the one piece of shared mutable state in the
// client, with writes confined to the auth flow and the explicit logout.
package session

import (
	"strconv"
	"sync"
	"time"
)

// Storage is the tab-scoped key/value facility backing the store. Values
// live for the browser session (or the process, for the in-memory default),
// deliberately bounding the token's usable lifetime.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

const (
	keyToken          = "jwt_token"
	keyRole           = "session_role"
	keyUniversityID   = "university_id"
	keyUniversityName = "university_name"
)

// Roles as the session store knows them. Kept as plain strings so the
// package stays importable without the server's domain types.
const (
	RoleStudent = "student"
	RoleCompany = "company"
	RoleAdmin   = "admin"
)

// Store reads and mutates the current session. All mutation happens in
// response to a completed auth call; a mutex keeps concurrent accessors safe
// even though the intended caller is a single UI flow.
type Store struct {
	mu      sync.Mutex
	storage Storage

	now func() time.Time
}

func NewStore(storage Storage) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Store{storage: storage, now: time.Now}
}

// SetToken stores the bearer credential, overwriting any prior token.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage.Set(keyToken, token)
}

// Token returns the stored token, or false when absent. It never fails.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Get(keyToken)
}

// IsAuthenticated reports whether a non-expired token is present. Expiry is
// discovered lazily here, not by a background timer: a present-but-expired
// token clears the whole session as a side effect. A malformed token counts
// as logged out.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.storage.Get(keyToken)
	if !ok {
		return false
	}

	claims, err := DecodeClaims(token)
	if err != nil {
		return false
	}
	if claims.Expired(s.now()) {
		s.clearLocked()
		return false
	}
	return true
}

// SetIdentity records the role-scoped numeric ID and the active role.
func (s *Store) SetIdentity(role string, identityID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage.Set(keyRole, role)
	s.storage.Set(identityKey(role), strconv.FormatInt(identityID, 10))
}

// IdentityID returns the stored ID for the given role, or false when a
// different role (or nobody) is logged in.
func (s *Store) IdentityID(role string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.storage.Get(identityKey(role))
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Role returns the role recorded at the last identity commit.
func (s *Store) Role() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Get(keyRole)
}

// SetUniversityScope records the tenant selected by passkey verification.
// All subsequent signup/login calls must carry it.
func (s *Store) SetUniversityScope(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage.Set(keyUniversityID, strconv.FormatInt(id, 10))
	s.storage.Set(keyUniversityName, name)
}

// UniversityScope returns the selected tenant, or false when none was set.
func (s *Store) UniversityScope() (id int64, name string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, present := s.storage.Get(keyUniversityID)
	if !present {
		return 0, "", false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, "", false
	}
	name, _ = s.storage.Get(keyUniversityName)
	return id, name, true
}

// Email derives the account email from the stored token's claims. Absent
// token or undecodable claims yield false, never an error.
func (s *Store) Email() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.storage.Get(keyToken)
	if !ok {
		return "", false
	}
	claims, err := DecodeClaims(token)
	if err != nil || claims.Email == "" {
		return "", false
	}
	return claims.Email, true
}

// Clear removes token, identity, and university scope as one logical
// operation. Calling it on an empty session is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Store) clearLocked() {
	s.storage.Delete(keyToken)
	s.storage.Delete(keyRole)
	for _, role := range []string{RoleStudent, RoleCompany, RoleAdmin} {
		s.storage.Delete(identityKey(role))
	}
	s.storage.Delete(keyUniversityID)
	s.storage.Delete(keyUniversityName)
}

func identityKey(role string) string {
	return role + "_id"
}

// MemoryStorage is the in-process Storage used outside a browser context and
// in tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemoryStorage) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}
