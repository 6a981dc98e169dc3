package app

import (
	"strings"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/metrics"
)

// SendText fans a chat line out to the sender's room, sender included.
// Blank text is dropped before the room is even resolved: there is
// nothing to send, which is not an error.
func (e *Engine) SendText(id domain.ConnectionID, rawRoom, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	roomID := domain.NormalizeRoomID(rawRoom)
	room, ok := e.Rooms.Get(roomID)
	if !ok {
		return core.ErrNotInRoom
	}
	res, err := room.PostText(id, text, e.timestamp())
	if err != nil {
		return err
	}
	metrics.MessagesTotal.WithLabelValues(string(domain.MessageText)).Inc()
	e.applyBackpressure(roomID, res)
	return nil
}

// SendVoice fans a voice note out to the sender's room. Payload checks
// run inside the room, after the membership check.
func (e *Engine) SendVoice(id domain.ConnectionID, rawRoom string, audio []byte, duration float64) error {
	roomID := domain.NormalizeRoomID(rawRoom)
	room, ok := e.Rooms.Get(roomID)
	if !ok {
		return core.ErrNotInRoom
	}
	res, err := room.PostVoice(id, audio, duration, e.timestamp())
	if err != nil {
		return err
	}
	metrics.MessagesTotal.WithLabelValues(string(domain.MessageVoice)).Inc()
	e.applyBackpressure(roomID, res)
	return nil
}
