package core

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/protocol"
)

type member struct {
	id   domain.ConnectionID
	name string
	conn SignalConn
}

// Room is a threadsafe in-memory room. It exclusively owns membership,
// history and call state: every check-then-act runs as one critical
// section under mu, and because fan-out is a non-blocking enqueue, the
// order events are enqueued under the lock is the order history records
// them. It never closes adapter-owned resources.
type Room struct {
	id domain.RoomID

	mu      sync.Mutex
	members []member              // join order
	history []domain.Message      // append-only, oldest first
	call    []domain.ConnectionID // call participants, join order
	defunct bool                  // emptied; the store is about to drop it
}

func NewRoom(id domain.RoomID) *Room {
	return &Room{id: id}
}

func (r *Room) ID() domain.RoomID { return r.id }

// Join adds a connection under the given display name. The collision
// check and the insert are one critical section, so two concurrent
// joiners can never both claim the same name. The joiner's history
// snapshot is taken before its own join line, matching what the members
// already present have seen. A joiner whose queue cannot take the
// snapshot is counted among the dropped, same as any slow consumer.
func (r *Room) Join(id domain.ConnectionID, name string, conn SignalConn, ts string) (PublishResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defunct {
		return PublishResult{}, ErrRoomGone
	}
	for _, m := range r.members {
		if strings.EqualFold(m.name, name) {
			return PublishResult{}, ErrNameTaken
		}
	}
	snapshot := append([]domain.Message{}, r.history...)
	r.members = append(r.members, member{id: id, name: name, conn: conn})
	res := PublishResult{}
	if err := conn.TrySend(protocol.RoomJoined{
		RoomID:          r.id,
		Username:        name,
		Messages:        snapshot,
		Users:           r.namesLocked(),
		VideoCallActive: r.callActiveLocked(),
	}); err != nil {
		res.Dropped = append(res.Dropped, id)
		log.Warn().Str("module", "core.room").Str("room", string(r.id)).Str("conn", string(id)).Msg("join snapshot dropped")
	} else {
		res.SendTo++
	}
	r.appendLocked(domain.NewSystemMessage(name+" has joined the room", ts))
	bres := r.broadcastLocked(protocol.UserJoined{
		Username:  name,
		Timestamp: ts,
		Users:     r.namesLocked(),
	}, id)
	res.SendTo += bres.SendTo
	res.Dropped = append(res.Dropped, bres.Dropped...)
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("conn", string(id)).Str("user", name).Msg("member joined")
	return res, nil
}

// LeaveResult reports what a removal changed.
type LeaveResult struct {
	Name  string
	Empty bool // room emptied and went defunct; the caller drops it from the store
}

// Leave removes a connection: call state first, then membership. A
// connection that never joined reports ok=false and changes nothing.
func (r *Room) Leave(id domain.ConnectionID, ts string) (LeaveResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberLocked(id)
	if !ok {
		return LeaveResult{}, false
	}
	r.leaveCallLocked(id, ts)
	r.members = lo.Reject(r.members, func(x member, _ int) bool { return x.id == id })
	r.appendLocked(domain.NewSystemMessage(m.name+" has left the room", ts))
	r.broadcastLocked(protocol.UserLeft{
		Username:  m.name,
		Timestamp: ts,
		Users:     r.namesLocked(),
	})
	res := LeaveResult{Name: m.name}
	if len(r.members) == 0 {
		r.defunct = true
		res.Empty = true
	}
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("conn", string(id)).Str("user", m.name).Bool("empty", res.Empty).Msg("member left")
	return res, true
}

// PostText appends and fans out a chat line to every member, sender
// included. Callers filter empty text before resolving the room.
func (r *Room) PostText(id domain.ConnectionID, text, ts string) (PublishResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberLocked(id)
	if !ok {
		return PublishResult{}, ErrNotInRoom
	}
	msg := domain.NewTextMessage(m.name, id, text, ts)
	r.appendLocked(msg)
	return r.broadcastLocked(protocol.NewMessage{Message: msg}), nil
}

// PostVoice validates, appends and fans out a voice note. The membership
// check comes first so outsiders learn nothing about payload limits.
func (r *Room) PostVoice(id domain.ConnectionID, audio []byte, duration float64, ts string) (PublishResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberLocked(id)
	if !ok {
		return PublishResult{}, ErrNotInRoom
	}
	msg, err := domain.NewVoiceMessage(m.name, id, audio, duration, ts)
	if err != nil {
		return PublishResult{}, err
	}
	r.appendLocked(msg)
	return r.broadcastLocked(protocol.NewMessage{Message: msg}), nil
}

// StartCall puts the caller in the participant set and announces the
// call to the whole room, caller included. Repeats re-announce but the
// set insert is idempotent.
func (r *Room) StartCall(id domain.ConnectionID, ts string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberLocked(id)
	if !ok {
		return ErrNotInRoom
	}
	r.addParticipantLocked(id)
	r.appendLocked(domain.NewSystemMessage(m.name+" started a video call", ts))
	r.broadcastLocked(protocol.VideoCallStarted{Username: m.name, PeerID: id, Timestamp: ts})
	log.Debug().Str("module", "core.room").Str("room", string(r.id)).Str("conn", string(id)).Msg("call started")
	return nil
}

// JoinCall adds the caller to a running call. The joiner alone learns
// the existing participants to dial; everyone else learns the joiner.
func (r *Room) JoinCall(id domain.ConnectionID, ts string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberLocked(id)
	if !ok {
		return ErrNotInRoom
	}
	others := make([]protocol.CallParticipant, 0, len(r.call))
	for _, pid := range r.call {
		if pid == id {
			continue
		}
		if om, here := r.memberLocked(pid); here {
			others = append(others, protocol.CallParticipant{PeerID: pid, Username: om.name})
		}
	}
	r.addParticipantLocked(id)
	_ = m.conn.TrySend(protocol.ExistingParticipants{Participants: others})
	r.broadcastLocked(protocol.UserJoinedCall{PeerID: id, Username: m.name}, id)
	r.postSystemLocked(m.name+" joined the video call", ts)
	log.Debug().Str("module", "core.room").Str("room", string(r.id)).Str("conn", string(id)).Int("peers", len(others)).Msg("call joined")
	return nil
}

// LeaveCall is idempotent: connections outside the participant set are
// a silent no-op.
func (r *Room) LeaveCall(id domain.ConnectionID, ts string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveCallLocked(id, ts)
}

// leaveCallLocked removes id from the call if present. Draining the
// last participant flips the call inactive and the room hears
// video_call_ended instead of a final user_left_call.
func (r *Room) leaveCallLocked(id domain.ConnectionID, ts string) {
	if !lo.Contains(r.call, id) {
		return
	}
	name := ""
	if m, ok := r.memberLocked(id); ok {
		name = m.name
	}
	r.call = lo.Reject(r.call, func(pid domain.ConnectionID, _ int) bool { return pid == id })
	r.postSystemLocked(name+" left the video call", ts)
	if len(r.call) == 0 {
		r.postSystemLocked("Video call ended", ts)
		r.broadcastLocked(protocol.VideoCallEnded{})
		log.Debug().Str("module", "core.room").Str("room", string(r.id)).Msg("call ended")
	} else {
		r.broadcastLocked(protocol.UserLeftCall{PeerID: id, Username: name})
	}
}

func (r *Room) addParticipantLocked(id domain.ConnectionID) {
	if !lo.Contains(r.call, id) {
		r.call = append(r.call, id)
	}
}

// postSystemLocked records a system line and fans it out live, unlike
// join/leave lines which ride in history only.
func (r *Room) postSystemLocked(text, ts string) {
	msg := domain.NewSystemMessage(text, ts)
	r.appendLocked(msg)
	r.broadcastLocked(protocol.NewMessage{Message: msg})
}

func (r *Room) appendLocked(msg domain.Message) {
	r.history = append(r.history, msg)
}

// broadcastLocked enqueues ev to every member except the exclusions.
// Slow consumers are dropped from this fan-out, never waited on.
func (r *Room) broadcastLocked(ev protocol.Event, except ...domain.ConnectionID) PublishResult {
	res := PublishResult{}
	for _, m := range r.members {
		if lo.Contains(except, m.id) {
			continue
		}
		if err := m.conn.TrySend(ev); err != nil {
			res.Dropped = append(res.Dropped, m.id)
			continue
		}
		res.SendTo++
	}
	if len(res.Dropped) > 0 {
		log.Warn().Str("module", "core.room").Str("room", string(r.id)).Int("dropped", len(res.Dropped)).Str("event", ev.EventName()).Msg("slow consumers dropped from fan-out")
	}
	return res
}

func (r *Room) memberLocked(id domain.ConnectionID) (member, bool) {
	for _, m := range r.members {
		if m.id == id {
			return m, true
		}
	}
	return member{}, false
}

func (r *Room) namesLocked() []string {
	return lo.Map(r.members, func(m member, _ int) string { return m.name })
}

func (r *Room) callActiveLocked() bool { return len(r.call) > 0 }

// Gone reports whether the room emptied and should be re-created rather
// than joined.
func (r *Room) Gone() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defunct
}

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Members returns display names in join order.
func (r *Room) Members() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.namesLocked()
}

// History returns a snapshot copy; entries themselves are immutable.
func (r *Room) History() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Message{}, r.history...)
}

// CallParticipants returns the participant ids in call join order.
func (r *Room) CallParticipants() []domain.ConnectionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ConnectionID{}, r.call...)
}

func (r *Room) CallActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.callActiveLocked()
}

func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		RoomID:          r.id,
		MemberCount:     len(r.members),
		VideoCallActive: r.callActiveLocked(),
	}
}
