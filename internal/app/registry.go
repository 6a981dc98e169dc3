package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

type sessionEntry struct {
	Conn core.SignalConn
	Room domain.RoomID // "" until the connection joins somewhere
	Name string        // display name, set at join
}

// Registry tracks live connections and which room each one is in.
// Presence only: room membership itself lives in the room, and the two
// locks are never held together.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ConnectionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[domain.ConnectionID]*sessionEntry)}
}

// Bind registers a fresh connection with no room association.
func (r *Registry) Bind(id domain.ConnectionID, conn core.SignalConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &sessionEntry{Conn: conn}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("bound connection")
}

// Unbind forgets the connection. Reports whether it was known, so
// disconnect cleanup stays idempotent.
func (r *Registry) Unbind(id domain.ConnectionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unbound connection")
	return true
}

// Lookup resolves a connection id to its transport endpoint.
func (r *Registry) Lookup(id domain.ConnectionID) (core.SignalConn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[id]; ok {
		return e.Conn, true
	}
	return nil, false
}

// RoomOf reports the room the connection currently sits in, if any.
func (r *Registry) RoomOf(id domain.ConnectionID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok || e.Room == "" {
		return "", false
	}
	return e.Room, true
}

// UpdateRoom re-points the connection at its new room after a join.
func (r *Registry) UpdateRoom(id domain.ConnectionID, room domain.RoomID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return false
	}
	e.Room = room
	e.Name = name
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(room)).Str("user", name).Msg("updated room")
	return true
}

// RemoveRoom clears the room association after a leave.
func (r *Registry) RemoveRoom(id domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		e.Room = ""
		e.Name = ""
	}
}

// Count reports live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
