package core

import "errors"

// Room-state errors surfaced to clients verbatim. Payload validation
// errors live in domain.
var (
	ErrNameTaken   = errors.New("username already taken in this room")
	ErrNotInRoom   = errors.New("you are not in this room")
	ErrConnUnknown = errors.New("connection is not registered")
)

// ErrRoomGone marks a room that already emptied and is about to be
// dropped from the store. Callers get-or-create again and retry.
var ErrRoomGone = errors.New("room is gone")
