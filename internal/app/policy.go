package app

import "github.com/dkeye/Parley/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

// Policy decides what happens to a member whose send queue overflowed.
// The frame itself is already lost by the time the policy runs.
type Policy interface {
	OnBackPressure(room domain.RoomID, conn domain.ConnectionID) BackpressureAction
}

// SimplePolicy disconnects members that cannot keep up; a reconnect
// resyncs them through the join snapshot.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room domain.RoomID, conn domain.ConnectionID) BackpressureAction {
	return KickMember
}

// DropPolicy sheds load by losing frames for the slow member only.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(room domain.RoomID, conn domain.ConnectionID) BackpressureAction {
	return DropFrame
}
