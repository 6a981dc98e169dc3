package app

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/metrics"
)

const roomCodeLen = 6

// defaultRoomCode derives a short shareable code from a uuid prefix.
// Uniqueness against live rooms is the manager's job, not the code's.
func defaultRoomCode() string {
	return strings.ToUpper(uuid.NewString()[:roomCodeLen])
}

// RoomManager owns the id → room map. Rooms are created on demand and
// dropped once their last member leaves; the defunct flag plus the
// identity check in Remove keep a concurrent re-create under the same
// code from being clobbered.
type RoomManager struct {
	mu      sync.RWMutex
	rooms   map[domain.RoomID]*core.Room
	genCode func() string
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:   make(map[domain.RoomID]*core.Room),
		genCode: defaultRoomCode,
	}
}

// Create mints an empty room under a fresh code, regenerating on the
// rare collision with a live room.
func (m *RoomManager) Create() *core.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	var id domain.RoomID
	for {
		id = domain.RoomID(m.genCode())
		if _, taken := m.rooms[id]; !taken {
			break
		}
	}
	room := core.NewRoom(id)
	m.rooms[id] = room
	metrics.RoomsLive.Inc()
	return room
}

// GetOrCreate returns the live room for id, building one when the slot
// is empty or still holds a room that already went defunct.
func (m *RoomManager) GetOrCreate(id domain.RoomID) *core.Room {
	m.mu.RLock()
	room, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok && !room.Gone() {
		return room
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok = m.rooms[id]; ok && !room.Gone() {
		return room
	}
	fresh := core.NewRoom(id)
	if !ok {
		// replacing a defunct room in the slot is net zero for the gauge
		metrics.RoomsLive.Inc()
	}
	m.rooms[id] = fresh
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created on join")
	return fresh
}

// Get never creates.
func (m *RoomManager) Get(id domain.RoomID) (*core.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	return room, ok
}

// Remove drops the room only while the slot still holds that exact
// room, so a re-created room under the same code survives.
func (m *RoomManager) Remove(id domain.RoomID, room *core.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.rooms[id]; ok && current == room {
		delete(m.rooms, id)
		metrics.RoomsLive.Dec()
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room deleted")
	}
}

// List is the ops view, sorted by room id for stable output. It takes
// per-room locks under the manager lock; nothing locks in the other
// direction.
func (m *RoomManager) List() []core.RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := lo.MapToSlice(m.rooms, func(_ domain.RoomID, r *core.Room) core.RoomInfo {
		return r.Info()
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out
}

func (m *RoomManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
