package ws

import (
	"sort"
	"sync"
)

// Conn is the outbound side of a live connection as seen by the room core.
// Send must never block: delivery is fire-and-forget.
type Conn interface {
	ConnID() string
	Send(msg []byte)
}

// Binding names one (room, username) pair held by a connection
type Binding struct {
	Room     string
	Username string
}

// Registry maps (room, username) to the connection currently speaking for it.
// Keying by room keeps one user's presence in two rooms from sharing a single binding.
type Registry struct {
	mu     sync.RWMutex
	conns  map[Binding]Conn               // binding -> conn
	byConn map[string]map[Binding]struct{} // connID -> bindings (for disconnect cleanup)
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[Binding]Conn),
		byConn: make(map[string]map[Binding]struct{}),
	}
}

// Bind points (room, username) at c, replacing any previous connection
func (r *Registry) Bind(room, username string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Binding{Room: room, Username: username}

	// Remove old reverse entry if another connection held this binding
	if old, exists := r.conns[key]; exists && old.ConnID() != c.ConnID() {
		r.dropReverse(old.ConnID(), key)
	}

	r.conns[key] = c
	set, ok := r.byConn[c.ConnID()]
	if !ok {
		set = make(map[Binding]struct{})
		r.byConn[c.ConnID()] = set
	}
	set[key] = struct{}{}
}

// Lookup returns the connection bound to (room, username)
func (r *Registry) Lookup(room, username string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conns[Binding{Room: room, Username: username}]
	return c, ok
}

// Unbind removes the binding for (room, username), whichever connection holds it
func (r *Registry) Unbind(room, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Binding{Room: room, Username: username}
	if c, exists := r.conns[key]; exists {
		r.dropReverse(c.ConnID(), key)
		delete(r.conns, key)
	}
}

// UnbindConn removes every binding still held by c and returns them.
// Bindings already taken over by a newer connection are not touched.
func (r *Registry) UnbindConn(c Conn) []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, exists := r.byConn[c.ConnID()]
	if !exists {
		return nil
	}
	delete(r.byConn, c.ConnID())

	out := make([]Binding, 0, len(set))
	for key := range set {
		if cur, ok := r.conns[key]; ok && cur.ConnID() == c.ConnID() {
			delete(r.conns, key)
			out = append(out, key)
		}
	}
	sortBindings(out)
	return out
}

// Count returns the number of live bindings
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// dropReverse removes key from connID's reverse set. Caller must hold r.mu.
func (r *Registry) dropReverse(connID string, key Binding) {
	set, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(set, key)
	if len(set) == 0 {
		delete(r.byConn, connID)
	}
}

func sortBindings(b []Binding) {
	sort.Slice(b, func(i, j int) bool {
		if b[i].Room != b[j].Room {
			return b[i].Room < b[j].Room
		}
		return b[i].Username < b[j].Username
	})
}
