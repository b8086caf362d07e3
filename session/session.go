// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/cratequest/gameserver/logger"
	"github.com/cratequest/gameserver/network"
)

type Session struct {
	ID        string
	Role      string
	Conn      network.Connection
	CreatedAt time.Time

	lastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id, role string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Role:       role,
		Conn:       conn,
		CreatedAt:  now,
		lastActive: now,
	}
}

// Emit pushes an event to the underlying connection. Ticks from the
// scheduler and admin pushes from HTTP handlers emit concurrently, so
// the activity timestamp is guarded.
func (s *Session) Emit(event string, v interface{}) error {
	s.mutex.Lock()
	s.lastActive = time.Now()
	s.mutex.Unlock()
	return s.Conn.Emit(event, v)
}

// LastActive returns the time of the most recent emit on this session.
func (s *Session) LastActive() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActive
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) IsAdmin() bool {
	return s.Role == network.RoleAdmin
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager 跟踪玩家连接和唯一的管理员连接。
// A session is tracked either as a player or as the admin, never both.
type Manager struct {
	players map[string]*Session
	admin   *Session
	mutex   sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		players: make(map[string]*Session),
	}
}

// Add registers a session under its role. A newly arriving admin silently
// replaces the previous admin reference, last one wins.
func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if session.IsAdmin() {
		m.admin = session
		return
	}
	m.players[session.ID] = session
}

// Remove drops a session. Removing the current admin clears the admin
// reference; removing a stale admin (already replaced) is a no-op.
func (m *Manager) Remove(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if session.IsAdmin() {
		if m.admin == session {
			m.admin = nil
		}
		return
	}
	delete(m.players, session.ID)
}

func (m *Manager) GetPlayer(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.players[sessionID]
	return session, exists
}

// Admin returns the current admin session, or nil if none is connected.
func (m *Manager) Admin() *Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.admin
}

func (m *Manager) PlayerCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.players)
}

// CloseAll closes every tracked connection. Read loops blocked on a
// closed connection get an error and unwind, so this is how shutdown
// drains websocket goroutines that http.Server.Shutdown cannot reach.
func (m *Manager) CloseAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, session := range m.players {
		if err := session.Close(); err != nil {
			logger.Log.Debugf("Failed to close session %s: %v", session.ID, err)
		}
	}
	if m.admin != nil {
		if err := m.admin.Close(); err != nil {
			logger.Log.Debugf("Failed to close admin session %s: %v", m.admin.ID, err)
		}
	}
}
