package protocol

import (
	"encoding/json"

	"github.com/dkeye/Parley/internal/domain"
)

// Connected tells a fresh connection its own peer id.
type Connected struct {
	ConnectionID domain.ConnectionID `json:"connection_id"`
}

func (Connected) EventName() string { return EventConnected }

type RoomCreated struct {
	RoomID domain.RoomID `json:"room_id"`
}

func (RoomCreated) EventName() string { return EventRoomCreated }

// ErrorEvent carries a user-facing failure line for the connection's own
// last request. It never reveals other members' state.
type ErrorEvent struct {
	Message string `json:"message"`
}

func (ErrorEvent) EventName() string { return EventError }

// RoomJoined is the full snapshot a joiner receives: history as of the
// moment before its own join line, members in join order, call activity.
type RoomJoined struct {
	RoomID          domain.RoomID    `json:"room_id"`
	Username        string           `json:"username"`
	Messages        []domain.Message `json:"messages"`
	Users           []string         `json:"users"`
	VideoCallActive bool             `json:"video_call_active"`
}

func (RoomJoined) EventName() string { return EventRoomJoined }

type UserJoined struct {
	Username  string   `json:"username"`
	Timestamp string   `json:"timestamp"`
	Users     []string `json:"users"`
}

func (UserJoined) EventName() string { return EventUserJoined }

type UserLeft struct {
	Username  string   `json:"username"`
	Timestamp string   `json:"timestamp"`
	Users     []string `json:"users"`
}

func (UserLeft) EventName() string { return EventUserLeft }

type LeftRoom struct {
	RoomID domain.RoomID `json:"room_id"`
}

func (LeftRoom) EventName() string { return EventLeftRoom }

// NewMessage fans a freshly appended history entry out to the room.
type NewMessage struct {
	domain.Message
}

func (NewMessage) EventName() string { return EventNewMessage }

type VideoCallStarted struct {
	Username  string              `json:"username"`
	PeerID    domain.ConnectionID `json:"peer_id"`
	Timestamp string              `json:"timestamp"`
}

func (VideoCallStarted) EventName() string { return EventVideoCallStarted }

type CallParticipant struct {
	PeerID   domain.ConnectionID `json:"peer_id"`
	Username string              `json:"username"`
}

// ExistingParticipants goes to a call joiner only, listing the peers it
// should dial, in the order they joined the call.
type ExistingParticipants struct {
	Participants []CallParticipant `json:"participants"`
}

func (ExistingParticipants) EventName() string { return EventExistingParticipants }

type UserJoinedCall struct {
	PeerID   domain.ConnectionID `json:"peer_id"`
	Username string              `json:"username"`
}

func (UserJoinedCall) EventName() string { return EventUserJoinedCall }

type UserLeftCall struct {
	PeerID   domain.ConnectionID `json:"peer_id"`
	Username string              `json:"username"`
}

func (UserLeftCall) EventName() string { return EventUserLeftCall }

type VideoCallEnded struct{}

func (VideoCallEnded) EventName() string { return EventVideoCallEnded }

// SignalingOffer is a relayed offer, re-tagged with the sending peer.
type SignalingOffer struct {
	Offer  json.RawMessage     `json:"offer"`
	PeerID domain.ConnectionID `json:"peer_id"`
}

func (SignalingOffer) EventName() string { return EventSignalingOffer }

type SignalingAnswer struct {
	Answer json.RawMessage     `json:"answer"`
	PeerID domain.ConnectionID `json:"peer_id"`
}

func (SignalingAnswer) EventName() string { return EventSignalingAnswer }

type SignalingCandidate struct {
	Candidate json.RawMessage     `json:"candidate"`
	PeerID    domain.ConnectionID `json:"peer_id"`
}

func (SignalingCandidate) EventName() string { return EventSignalingCandidate }

type Pong struct{}

func (Pong) EventName() string { return EventPong }
