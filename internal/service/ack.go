package service

import (
	"context"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/ericogr/fleet-clash/internal/logging"
)

// AckResult tells a client whether its acknowledgment advanced the match.
type AckResult struct {
	Done     bool `json:"done"`
	Finished bool `json:"finished,omitempty"`
}

// Ack records that playerID finished replaying the current round. Once
// every player has acknowledged, the match moves to the next round's
// setup, or to finished when the last result emptied someone's lives.
// Acks outside the combat phase are ignored.
func (s *MatchService) Ack(ctx context.Context, roomID, playerID string) (AckResult, error) {
	var res AckResult
	_, err := s.update(ctx, roomID, func(room *game.Room, m *game.MatchState, fx *sideEffects) (bool, error) {
		res = AckResult{}
		if findPlayer(room, playerID) == nil {
			return false, ErrPlayerNotFound
		}
		if m.GamePhase != game.PhaseCombat {
			return false, nil
		}

		already := m.Acks[playerID]
		m.Acks[playerID] = true
		for _, p := range room.Players {
			if !m.Acks[p.PlayerID] {
				return !already, nil
			}
		}

		for _, p := range room.Players {
			fx.setReady(p.PlayerID, false)
		}
		res.Done = true
		if m.PendingFinish {
			m.GamePhase = game.PhaseFinished
			m.PendingFinish = false
			fx.status = game.RoomStatusFinished
			res.Finished = true
			return true, nil
		}

		m.Acks = map[string]bool{}
		m.RoundLog = nil
		m.RoundNum++
		m.GamePhase = game.PhaseSetup
		// Snapshots belong to a single round; the next one needs fresh
		// submissions before anyone can ready up.
		for id, st := range m.PlayerStates {
			st.Fleet = nil
			st.FleetValid = nil
			m.PlayerStates[id] = st
		}
		return true, nil
	})
	if err != nil {
		return AckResult{}, err
	}
	if res.Done {
		logging.Info("round acknowledged by all players", logging.Fields{
			constants.LogFieldRoomID: roomID,
			constants.LogFieldPhase:  phaseAfterAck(res),
		})
	}
	return res, nil
}

func phaseAfterAck(res AckResult) game.Phase {
	if res.Finished {
		return game.PhaseFinished
	}
	return game.PhaseSetup
}
