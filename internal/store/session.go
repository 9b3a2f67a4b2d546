package store

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/repositories"
	"github.com/michida/michida/internal/services"
	"github.com/michida/michida/internal/shared"
)

// sessionTokenKey is where the access token persists in the local KV store
// so a new process can initialize from an existing session.
const sessionTokenKey = "session_token"

// SessionListener receives the new identity on every auth-state change;
// nil means signed out.
type SessionListener func(user *models.User)

// SessionManager tracks the signed-in identity and fans out auth-state
// change notifications for the lifetime of the application.
type SessionManager struct {
	backend services.Backend
	kv      repositories.KV
	logger  *log.Logger

	mu        sync.Mutex
	user      *models.User
	listeners map[int]SessionListener
	nextID    int
}

// NewSessionManager creates a session manager. kv may be nil, in which case
// sessions do not survive the process.
func NewSessionManager(backend services.Backend, kv repositories.KV, logger *log.Logger) *SessionManager {
	return &SessionManager{
		backend:   backend,
		kv:        kv,
		logger:    logger,
		listeners: map[int]SessionListener{},
	}
}

// Init restores any saved session: it installs the stored token and asks the
// identity provider who it belongs to. An expired token is discarded
// silently; transport failures leave the client signed out.
func (m *SessionManager) Init(ctx context.Context) {
	if m.kv == nil {
		return
	}

	token, ok, err := m.kv.Get(sessionTokenKey)
	if err != nil {
		m.logger.Warn("failed to read saved session", "err", err)
		return
	}
	if !ok || token == "" {
		return
	}

	m.backend.SetAccessToken(token)
	user, err := m.backend.Session(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrSessionExpired) {
			m.kv.Remove(sessionTokenKey)
		} else {
			m.logger.Warn("failed to restore session", "err", err)
		}
		m.backend.SetAccessToken("")
		return
	}

	m.setUser(user)
}

// Current returns the signed-in identity, or nil.
func (m *SessionManager) Current() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Subscribe registers a listener for auth-state changes and returns its
// unsubscribe function, to be called on teardown.
func (m *SessionManager) Subscribe(fn SessionListener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// InstallToken completes a sign-in: it installs the access token, resolves
// the identity behind it, persists the token, and notifies listeners.
func (m *SessionManager) InstallToken(ctx context.Context, token string) (*models.User, error) {
	m.backend.SetAccessToken(token)

	user, err := m.backend.Session(ctx)
	if err != nil {
		m.backend.SetAccessToken("")
		return nil, err
	}

	if m.kv != nil {
		if err := m.kv.Set(sessionTokenKey, token); err != nil {
			m.logger.Warn("failed to persist session", "err", err)
		}
	}

	m.setUser(user)
	return user, nil
}

// Logout clears the remote session and the saved token, then notifies
// listeners with a nil identity. User-scoped local state is reset by the
// listeners; the global feed is left intact.
func (m *SessionManager) Logout(ctx context.Context) error {
	err := m.backend.SignOut(ctx)
	if err != nil {
		m.logger.Warn("remote sign-out failed", "err", err)
	}

	m.backend.SetAccessToken("")
	if m.kv != nil {
		m.kv.Remove(sessionTokenKey)
	}

	m.setUser(nil)
	return err
}

func (m *SessionManager) setUser(user *models.User) {
	m.mu.Lock()
	m.user = user
	fns := make([]SessionListener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}
