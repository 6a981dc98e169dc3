package protocol

import "encoding/json"

// Inbound payloads. Structural checks (missing peer target, negative
// duration) are validator tags enforced at the boundary; semantic checks
// (blank names, membership, payload size) belong to the engine.

type CreateRoomRequest struct {
	Username string `json:"username"`
}

type JoinRoomRequest struct {
	RoomID   string `json:"room_id"`
	Username string `json:"username"`
}

type LeaveRoomRequest struct {
	RoomID string `json:"room_id"`
}

type SendMessageRequest struct {
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
}

type SendVoiceNoteRequest struct {
	RoomID   string  `json:"room_id"`
	Audio    []byte  `json:"audio_data"`
	Duration float64 `json:"duration" validate:"gte=0"`
}

// CallRequest is shared by the three *_video_call events.
type CallRequest struct {
	RoomID string `json:"room_id"`
}

type SignalingOfferRequest struct {
	TargetPeer string          `json:"target_peer" validate:"required"`
	Offer      json.RawMessage `json:"offer" validate:"required"`
}

type SignalingAnswerRequest struct {
	TargetPeer string          `json:"target_peer" validate:"required"`
	Answer     json.RawMessage `json:"answer" validate:"required"`
}

type SignalingCandidateRequest struct {
	TargetPeer string          `json:"target_peer" validate:"required"`
	Candidate  json.RawMessage `json:"candidate" validate:"required"`
}
