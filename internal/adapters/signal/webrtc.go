package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/protocol"
)

// WebRTC signaling handlers. Offers, answers and candidates are opaque
// here: the engine re-tags them with the sender and forwards them to
// the addressed peer, and the peers negotiate media between themselves.

func (ctl *Controller) handleSignalingOffer(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p protocol.SignalingOfferRequest
	if err := ctl.decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad offer payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	ctl.Engine.RelayOffer(id, domain.ConnectionID(p.TargetPeer), p.Offer)
}

func (ctl *Controller) handleSignalingAnswer(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p protocol.SignalingAnswerRequest
	if err := ctl.decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad answer payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	ctl.Engine.RelayAnswer(id, domain.ConnectionID(p.TargetPeer), p.Answer)
}

func (ctl *Controller) handleSignalingCandidate(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p protocol.SignalingCandidateRequest
	if err := ctl.decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad candidate payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	ctl.Engine.RelayCandidate(id, domain.ConnectionID(p.TargetPeer), p.Candidate)
}
