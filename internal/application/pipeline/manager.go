package pipeline

import "sync"

// Manager mantiene un tablero por usuario, creado de forma perezosa. Es el
// único dueño de los tableros: nada de estado global ambiental.
type Manager struct {
	store Store

	mu     sync.Mutex
	boards map[string]*Board
}

// NewManager construye el manager de tableros.
func NewManager(store Store) *Manager {
	return &Manager{store: store, boards: map[string]*Board{}}
}

// Board devuelve el tablero del usuario, creándolo si no existe todavía.
// El tablero nuevo se devuelve sin cargar; el llamador decide cuándo hacer
// Refresh.
func (m *Manager) Board(ownerID string) *Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[ownerID]
	if !ok {
		b = NewBoard(m.store, ownerID)
		m.boards[ownerID] = b
	}
	return b
}
