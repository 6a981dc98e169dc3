// Package protocol defines the JSON events exchanged over a signaling
// connection. Every frame is an Envelope: a type tag plus an opaque data
// object the tag selects the shape of.
package protocol

import "encoding/json"

// Envelope is the outer frame in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound event tags.
const (
	EventCreateRoom     = "create_room"
	EventJoinRoom       = "join_room"
	EventLeaveRoom      = "leave_room"
	EventSendMessage    = "send_message"
	EventSendVoiceNote  = "send_voice_note"
	EventStartVideoCall = "start_video_call"
	EventJoinVideoCall  = "join_video_call"
	EventLeaveVideoCall = "leave_video_call"
	EventPing           = "ping"
)

// Outbound event tags. The three signaling tags are used in both
// directions: a client addresses a peer, the server re-tags the frame
// with the sender and forwards it.
const (
	EventConnected            = "connected"
	EventRoomCreated          = "room_created"
	EventError                = "error"
	EventRoomJoined           = "room_joined"
	EventUserJoined           = "user_joined"
	EventUserLeft             = "user_left"
	EventLeftRoom             = "left_room"
	EventNewMessage           = "new_message"
	EventVideoCallStarted     = "video_call_started"
	EventExistingParticipants = "existing_participants"
	EventUserJoinedCall       = "user_joined_call"
	EventUserLeftCall         = "user_left_call"
	EventVideoCallEnded       = "video_call_ended"
	EventSignalingOffer       = "signaling_offer"
	EventSignalingAnswer      = "signaling_answer"
	EventSignalingCandidate   = "signaling_ice_candidate"
	EventPong                 = "pong"
)

// Event is an outbound payload that knows its wire tag.
type Event interface {
	EventName() string
}

// Encode wraps an event in the envelope clients dispatch on.
func Encode(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: e.EventName(), Data: data})
}
