package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/metrics"
	"github.com/dkeye/Parley/internal/protocol"
)

// Point-to-point relay. Payloads stay opaque: the engine re-tags the
// frame with the sending peer and forwards it, nothing more. A missing
// target is dropped, not an error: the peer may have hung up between
// frames and the sender can do nothing useful about it.

func (e *Engine) RelayOffer(from, target domain.ConnectionID, offer json.RawMessage) {
	e.relay(from, target, protocol.SignalingOffer{Offer: offer, PeerID: from}, "offer")
}

func (e *Engine) RelayAnswer(from, target domain.ConnectionID, answer json.RawMessage) {
	e.relay(from, target, protocol.SignalingAnswer{Answer: answer, PeerID: from}, "answer")
}

func (e *Engine) RelayCandidate(from, target domain.ConnectionID, candidate json.RawMessage) {
	e.relay(from, target, protocol.SignalingCandidate{Candidate: candidate, PeerID: from}, "candidate")
}

func (e *Engine) relay(from, target domain.ConnectionID, ev protocol.Event, kind string) {
	conn, ok := e.Registry.Lookup(target)
	if !ok {
		metrics.SignalDroppedTotal.Inc()
		log.Debug().Str("module", "app.relay").Str("from", string(from)).Str("target", string(target)).Str("kind", kind).Msg("relay target gone")
		return
	}
	if err := conn.TrySend(ev); err != nil {
		metrics.SignalDroppedTotal.Inc()
		log.Debug().Str("module", "app.relay").Str("from", string(from)).Str("target", string(target)).Str("kind", kind).Msg("relay target backlogged")
		return
	}
	metrics.SignalRelayedTotal.WithLabelValues(kind).Inc()
}
