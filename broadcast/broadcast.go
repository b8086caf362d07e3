// broadcast/broadcast.go
package broadcast

import (
	"github.com/cratequest/gameserver/logger"
	"github.com/cratequest/gameserver/session"
)

// Emitter routes outbound events to live connections. Delivery is
// best-effort: a send to a connection that has already gone away is
// dropped silently.
type Emitter interface {
	EmitToSession(sessionID, event string, v interface{})
	EmitToAdmin(event string, v interface{})
}

// 基于会话管理器的发送器
type SessionEmitter struct {
	sessionManager *session.Manager
}

func NewSessionEmitter(sessionManager *session.Manager) *SessionEmitter {
	return &SessionEmitter{sessionManager: sessionManager}
}

// EmitToSession pushes an event to a single player connection. A miss is
// expected during the disconnect/tick race and is not an error.
func (e *SessionEmitter) EmitToSession(sessionID, event string, v interface{}) {
	s, exists := e.sessionManager.GetPlayer(sessionID)
	if !exists {
		return
	}
	if err := s.Emit(event, v); err != nil {
		logger.Log.Debugf("Dropped %q event for session %s: %v", event, sessionID, err)
	}
}

// EmitToAdmin pushes an event to the admin connection, if one is registered.
func (e *SessionEmitter) EmitToAdmin(event string, v interface{}) {
	admin := e.sessionManager.Admin()
	if admin == nil {
		return
	}
	if err := admin.Emit(event, v); err != nil {
		logger.Log.Debugf("Dropped %q event for admin session %s: %v", event, admin.GetID(), err)
	}
}
