package app

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

// CreateRoom mints a room under a fresh code. The creator does not join
// it; clients follow up with a join using the returned code.
func (e *Engine) CreateRoom(id domain.ConnectionID, username string) domain.RoomID {
	room := e.Rooms.Create()
	log.Info().Str("module", "app.engine").Str("conn", string(id)).Str("user", username).Str("room", string(room.ID())).Msg("room created")
	return room.ID()
}

// Join puts the connection in the room, creating the room on demand.
// A connection already sitting in a room switches: the new join runs
// first and the old membership is dropped only once it succeeded, so a
// failed join (taken name) leaves the previous room untouched.
// Re-joining the current room replays through a fresh leave and join.
func (e *Engine) Join(id domain.ConnectionID, rawRoom, rawName string) error {
	roomID := domain.NormalizeRoomID(rawRoom)
	if roomID == "" {
		return domain.ErrRoomIDEmpty
	}
	name, err := domain.NormalizeDisplayName(rawName)
	if err != nil {
		return err
	}
	conn, ok := e.Registry.Lookup(id)
	if !ok {
		log.Warn().Str("module", "app.engine").Str("conn", string(id)).Msg("join from unknown connection")
		return core.ErrConnUnknown
	}
	prev, hadRoom := e.Registry.RoomOf(id)
	if hadRoom && prev == roomID {
		// the member's own entry would collide with itself
		e.leaveCurrentRoom(id)
		hadRoom = false
	}
	ts := e.timestamp()
	var res core.PublishResult
	for {
		room := e.Rooms.GetOrCreate(roomID)
		res, err = room.Join(id, name, conn, ts)
		if errors.Is(err, core.ErrRoomGone) {
			// raced a room emptying out; the next get-or-create
			// replaces the defunct one
			continue
		}
		if err != nil {
			return err
		}
		break
	}
	if hadRoom {
		e.leaveCurrentRoom(id)
	}
	e.Registry.UpdateRoom(id, roomID, name)
	e.applyBackpressure(roomID, res)
	return nil
}

// Leave removes the connection from whatever room it is in. ok=false
// means it was not in one and nothing happened.
func (e *Engine) Leave(id domain.ConnectionID) (domain.RoomID, bool) {
	return e.leaveCurrentRoom(id)
}

func (e *Engine) leaveCurrentRoom(id domain.ConnectionID) (domain.RoomID, bool) {
	roomID, ok := e.Registry.RoomOf(id)
	if !ok {
		return "", false
	}
	if room, found := e.Rooms.Get(roomID); found {
		if res, was := room.Leave(id, e.timestamp()); was && res.Empty {
			e.Rooms.Remove(roomID, room)
		}
	}
	e.Registry.RemoveRoom(id)
	return roomID, true
}
