package clients

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Manager tracks the live control connection of each client, keyed by
// clientID. A client has at most one control connection.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*websocket.Conn
}

func NewManager() *Manager {
	return &Manager{clients: make(map[string]*websocket.Conn)}
}

// SetControl makes conn the control connection for id and returns the
// connection it replaced, if any. The caller closes old.
func (m *Manager) SetControl(id string, conn *websocket.Conn) (old *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[id]; ok && c != conn {
		old = c
	}
	m.clients[id] = conn
	return
}

// RemoveControl forgets conn if it is still the control connection for id.
func (m *Manager) RemoveControl(id string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clients[id] == conn {
		delete(m.clients, id)
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// CloseAll closes every tracked connection.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(m.clients))
	for id, c := range m.clients {
		conns = append(conns, c)
		delete(m.clients, id)
	}
	m.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
}
