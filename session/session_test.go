package session

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/cratequest/gameserver/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Emit(event string, v interface{}) error { return nil }
func (m *MockConnection) Close() error                           { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                   { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)    {}
func (m *MockConnection) ReadEvent() (*network.Envelope, error)  { return nil, nil }

// closableConn records whether Close was called.
type closableConn struct {
	MockConnection
	closed bool
}

func (c *closableConn) Close() error {
	c.closed = true
	return nil
}

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.players == nil {
		t.Fatal("NewManager should initialize the players map")
	}
}

func TestManager_AddGetRemovePlayer(t *testing.T) {
	manager := NewManager()
	sess := NewSession("player1", network.RolePlayer, &MockConnection{})

	manager.Add(sess)
	if manager.PlayerCount() != 1 {
		t.Fatalf("Expected player count to be 1, got %d", manager.PlayerCount())
	}

	retrieved, exists := manager.GetPlayer("player1")
	if !exists {
		t.Fatal("GetPlayer should find the added session")
	}
	if retrieved != sess {
		t.Fatal("GetPlayer should return the same session instance")
	}

	manager.Remove(sess)
	if manager.PlayerCount() != 0 {
		t.Fatalf("Expected player count to be 0 after removal, got %d", manager.PlayerCount())
	}
	if _, exists := manager.GetPlayer("player1"); exists {
		t.Fatal("GetPlayer should not find the removed session")
	}
}

func TestManager_PlayerIsNotAdmin(t *testing.T) {
	manager := NewManager()
	sess := NewSession("player1", network.RolePlayer, &MockConnection{})

	manager.Add(sess)
	if manager.Admin() != nil {
		t.Error("Adding a player must not set the admin reference")
	}
}

func TestManager_AdminIsNotPlayer(t *testing.T) {
	manager := NewManager()
	admin := NewSession("admin1", network.RoleAdmin, &MockConnection{})

	manager.Add(admin)
	if manager.Admin() != admin {
		t.Fatal("Admin should return the added admin session")
	}
	if manager.PlayerCount() != 0 {
		t.Error("An admin session must not appear in the player map")
	}
	if _, exists := manager.GetPlayer("admin1"); exists {
		t.Error("GetPlayer should not find an admin session")
	}
}

func TestManager_AdminReplacedOnReconnect(t *testing.T) {
	manager := NewManager()
	first := NewSession("admin1", network.RoleAdmin, &MockConnection{})
	second := NewSession("admin2", network.RoleAdmin, &MockConnection{})

	manager.Add(first)
	manager.Add(second)

	if manager.Admin() != second {
		t.Fatal("A newly arriving admin should replace the previous one")
	}

	// Removing the stale admin must not clear the current one.
	manager.Remove(first)
	if manager.Admin() != second {
		t.Error("Removing a replaced admin cleared the current admin reference")
	}

	manager.Remove(second)
	if manager.Admin() != nil {
		t.Error("Removing the current admin should clear the reference")
	}
}

func TestManager_CloseAll(t *testing.T) {
	manager := NewManager()
	p1 := &closableConn{}
	p2 := &closableConn{}
	ac := &closableConn{}

	manager.Add(NewSession("player1", network.RolePlayer, p1))
	manager.Add(NewSession("player2", network.RolePlayer, p2))
	manager.Add(NewSession("admin1", network.RoleAdmin, ac))

	manager.CloseAll()

	for name, conn := range map[string]*closableConn{"player1": p1, "player2": p2, "admin1": ac} {
		if !conn.closed {
			t.Errorf("CloseAll should close the connection for %s", name)
		}
	}
}

func TestSession_ConcurrentEmitUpdatesLastActive(t *testing.T) {
	sess := NewSession("player1", network.RolePlayer, &MockConnection{})
	before := sess.LastActive()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = sess.Emit(network.EventTimer, "01:30")
				_ = sess.LastActive()
			}
		}()
	}
	wg.Wait()

	if sess.LastActive().Before(before) {
		t.Error("LastActive should advance after emits")
	}
}

func TestSession_IsAdmin(t *testing.T) {
	admin := NewSession("a", network.RoleAdmin, &MockConnection{})
	player := NewSession("p", network.RolePlayer, &MockConnection{})

	if !admin.IsAdmin() {
		t.Error("Expected admin session to report IsAdmin")
	}
	if player.IsAdmin() {
		t.Error("Expected player session to not report IsAdmin")
	}
}
