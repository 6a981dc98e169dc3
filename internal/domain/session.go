// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const MaxDisplayNameLen = 36

var (
	ErrRoomIDEmpty      = errors.New("room id is required")
	ErrDisplayNameEmpty = errors.New("username is required")
	ErrDisplayNameLong  = errors.New("username too long")
)

type (
	// ConnectionID identifies one live signaling connection. It doubles as
	// the peer id clients address point-to-point frames to.
	ConnectionID string

	// RoomID is a canonical room code: trimmed, upper-case.
	RoomID string
)

// NormalizeRoomID maps a client-supplied code onto its canonical form.
// The empty result means the client sent nothing usable.
func NormalizeRoomID(raw string) RoomID {
	return RoomID(strings.ToUpper(strings.TrimSpace(raw)))
}

// NormalizeDisplayName trims a client-supplied name and bounds its length.
func NormalizeDisplayName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrDisplayNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return "", ErrDisplayNameLong
	}
	return name, nil
}
