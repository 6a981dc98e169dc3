package domain

import "errors"

// MessageKind discriminates room history entries.
type MessageKind string

const (
	MessageText   MessageKind = "text"
	MessageVoice  MessageKind = "voice"
	MessageSystem MessageKind = "system"
)

// SystemSender is the display name attached to server-generated lines
// about membership and call transitions.
const SystemSender = "System"

// MaxVoiceNoteBytes caps the decoded audio payload of a single voice note.
const MaxVoiceNoteBytes = 5 << 20

var (
	ErrNoAudio       = errors.New("no audio data received")
	ErrVoiceTooLarge = errors.New("voice note too large (max 5MB)")
)

// Message is one immutable room history entry. Field tags match the wire
// shape history is replayed in, so adapters never re-map entries.
type Message struct {
	Sender    string       `json:"username"`
	Kind      MessageKind  `json:"type"`
	Text      string       `json:"message,omitempty"`
	Audio     []byte       `json:"audio_data,omitempty"`
	Duration  float64      `json:"duration,omitempty"`
	Timestamp string       `json:"timestamp"`
	SenderID  ConnectionID `json:"sender_id,omitempty"`
}

// NewTextMessage avoids ad-hoc struct literals in room code.
func NewTextMessage(sender string, senderID ConnectionID, text, ts string) Message {
	return Message{
		Sender:    sender,
		Kind:      MessageText,
		Text:      text,
		Timestamp: ts,
		SenderID:  senderID,
	}
}

// NewVoiceMessage validates the audio payload before it enters history.
func NewVoiceMessage(sender string, senderID ConnectionID, audio []byte, duration float64, ts string) (Message, error) {
	if len(audio) == 0 {
		return Message{}, ErrNoAudio
	}
	if len(audio) > MaxVoiceNoteBytes {
		return Message{}, ErrVoiceTooLarge
	}
	return Message{
		Sender:    sender,
		Kind:      MessageVoice,
		Audio:     audio,
		Duration:  duration,
		Timestamp: ts,
		SenderID:  senderID,
	}, nil
}

// NewSystemMessage builds a server-generated line.
func NewSystemMessage(text, ts string) Message {
	return Message{
		Sender:    SystemSender,
		Kind:      MessageSystem,
		Text:      text,
		Timestamp: ts,
	}
}
