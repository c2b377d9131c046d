package session

import (
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/edulearn/academy-go/storage/kv"
)

// storage keys, fixed by earlier releases; a migrated store must stay
// readable.
const (
	keyToken     = "token"
	keyTokenTime = "tokenTime" // issuance time, unix milliseconds, string-encoded
	keyUserID    = "userId"
	keyName      = "name"
	keyRole      = "role"
)

var NowFunc = time.Now // mockable

// Manager owns the persisted Session: the single read/write API around the
// key-value store and the single enforcement point for token expiry.
type Manager struct {
	mu     sync.Mutex
	store  kv.Store
	expiry time.Duration
}

func NewManager(store kv.Store, expiry time.Duration) *Manager {
	if store == nil {
		panic("session: store must not be nil")
	}
	return &Manager{store: store, expiry: expiry}
}

// Load reads the persisted Session. A missing token yields a zero Session;
// unreadable identity fields are left zero rather than failing the load.
func (m *Manager) Load() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() Session {
	var s Session
	token, err := m.store.Get(keyToken)
	if err != nil {
		return s
	}
	s.Token = token

	if raw, err := m.store.Get(keyTokenTime); err == nil {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			s.IssuedAt = time.UnixMilli(ms)
		}
	}
	if raw, err := m.store.Get(keyUserID); err == nil {
		s.UserID, _ = strconv.Atoi(raw)
	}
	if name, err := m.store.Get(keyName); err == nil {
		s.Name = name
	}
	if role, err := m.store.Get(keyRole); err == nil {
		s.Role = role
	}
	return s
}

// Save persists all Session fields. IssuedAt defaults to now when unset so a
// token is never stored without its timestamp.
func (m *Manager) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.IssuedAt.IsZero() {
		s.IssuedAt = NowFunc()
	}
	fields := map[string]string{
		keyToken:     s.Token,
		keyTokenTime: strconv.FormatInt(s.IssuedAt.UnixMilli(), 10),
		keyUserID:    strconv.Itoa(s.UserID),
		keyName:      s.Name,
		keyRole:      s.Role,
	}
	for key, val := range fields {
		if err := m.store.Set(key, val); err != nil {
			return errors.Wrapf(err, "persisting session field %q", key)
		}
	}
	return nil
}

// Clear removes every session field. It is idempotent and never fails:
// teardown must succeed even when the store is already empty or broken.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range []string{keyToken, keyTokenTime, keyUserID, keyName, keyRole} {
		_ = m.store.Delete(key)
	}
}

// Active reports whether a token is currently stored.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.store.Get(keyToken)
	return err == nil
}

// Expired is the token validity policy. No token means expired. A token
// without an issuance timestamp is treated as freshly issued: the timestamp
// is backfilled to now and the token judged valid, never expired. Unreadable
// state fails closed.
func (m *Manager) Expired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.store.Get(keyToken); err != nil {
		return true
	}

	raw, err := m.store.Get(keyTokenTime)
	if err != nil {
		// lazy backfill: treat as just issued
		_ = m.store.Set(keyTokenTime, strconv.FormatInt(NowFunc().UnixMilli(), 10))
		return false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	age := NowFunc().Sub(time.UnixMilli(ms))
	return age > m.expiry
}

// RefreshStamp re-stamps the issuance time without touching the token.
// Some views perform this periodically to keep an actively used session
// from hitting the ceiling mid-use.
func (m *Manager) RefreshStamp() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.store.Get(keyToken); err != nil {
		return
	}
	_ = m.store.Set(keyTokenTime, strconv.FormatInt(NowFunc().UnixMilli(), 10))
}

// Token returns the stored bearer token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, err := m.store.Get(keyToken)
	if err != nil {
		return ""
	}
	return token
}
