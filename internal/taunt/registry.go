package taunt

import (
	"strings"
	"sync"
)

// CustomIDPrefix marks select menu custom IDs that belong to taunt menus.
const CustomIDPrefix = "taunt:"

// CustomID builds the component custom ID for a menu ID.
func CustomID(menuID string) string {
	return CustomIDPrefix + menuID
}

// MenuID extracts the menu ID from a component custom ID.
func MenuID(customID string) (string, bool) {
	id, ok := strings.CutPrefix(customID, CustomIDPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Registry holds the menus that are still listening for selections.
type Registry struct {
	mu    sync.RWMutex
	menus map[string]*Menu
}

func NewRegistry() *Registry {
	return &Registry{menus: make(map[string]*Menu)}
}

// Add starts routing selections to m. The menu removes itself once answered.
func (r *Registry) Add(m *Menu) {
	m.mu.Lock()
	m.onStop = func() { r.Remove(m.id) }
	m.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.menus[m.id] = m
}

func (r *Registry) Get(id string) (*Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.menus[id]
	if !ok {
		return nil, ErrMenuNotFound
	}
	return m, nil
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.menus, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.menus)
}
