package service

import (
	"context"
	"errors"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/dedupe"
	"github.com/ericogr/fleet-clash/internal/engine"
	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/ericogr/fleet-clash/internal/keys"
	"github.com/ericogr/fleet-clash/internal/logging"
)

// CombatOutcome is the result of an explicit combat result submission.
type CombatOutcome struct {
	Processed  bool `json:"processed"`
	Finished   bool `json:"finished,omitempty"`
	LoserLives *int `json:"loserLives,omitempty"`
}

// TryResolve simulates the pending round of roomID when every
// precondition holds: two players, a match in setup, both ready, both
// fleets submitted and non-empty, neither marked invalid. It reports
// whether a round was resolved. Unmet preconditions are not errors.
func (s *MatchService) TryResolve(ctx context.Context, roomID string) (bool, error) {
	v, err, _ := dedupe.ResolveGroup.Do(roomID, func() (interface{}, error) {
		return s.tryResolve(ctx, roomID)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (s *MatchService) tryResolve(ctx context.Context, roomID string) (bool, error) {
	var seed, winner string
	resolved, err := s.update(ctx, roomID, func(room *game.Room, m *game.MatchState, fx *sideEffects) (bool, error) {
		if len(room.Players) != MaxPlayers || m.GamePhase != game.PhaseSetup {
			return false, nil
		}
		players := orderedPlayers(room)
		for _, p := range players {
			st := m.PlayerStates[p.PlayerID]
			if !p.IsReady || !st.HasSnapshot() || len(*st.Fleet) == 0 || st.MarkedInvalid() {
				return false, nil
			}
		}

		seed = keys.RoundSeed(roomID, m.RoundNum, s.now().UnixMilli())
		a, b := players[0], players[1]
		result := engine.Simulate(seed,
			engine.Combatant{PlayerID: a.PlayerID, Fleet: *m.PlayerStates[a.PlayerID].Fleet},
			engine.Combatant{PlayerID: b.PlayerID, Fleet: *m.PlayerStates[b.PlayerID].Fleet},
		)
		winner = result.WinnerPlayerID
		fx.archive = &game.FleetArchive{
			RoomID:   roomID,
			RoundNum: m.RoundNum,
			PlayerID: winner,
			Fleet:    m.PlayerStates[winner].Fleet.Clone(),
		}

		loser := opponentOf(room, winner)
		lives := decrementLives(m, fx, loser)

		m.GamePhase = game.PhaseCombat
		if lives == 0 {
			m.GamePhase = game.PhaseFinished
			fx.status = game.RoomStatusFinished
		}
		m.RoundSeed = seed
		m.RoundLog = result.RoundLog
		m.LastWinner = winner
		m.Acks = map[string]bool{}
		return true, nil
	})
	if errors.Is(err, ErrMatchNotFound) {
		return false, nil
	}
	if err != nil {
		logging.Error("round resolution failed", err, logging.Fields{constants.LogFieldRoomID: roomID})
		return false, err
	}
	if resolved {
		logging.Info("round resolved", logging.Fields{
			constants.LogFieldRoomID: roomID,
			constants.LogFieldSeed:   seed,
			constants.LogFieldWinner: winner,
		})
	}
	return resolved, nil
}

// ResolveCombatResult records winnerID as the winner of the pending round
// without simulating it. Like TryResolve it only acts during setup; a
// second submission for the same round is reported as not processed.
// When the loser runs out of lives the match finishes once both players
// have acknowledged the round.
func (s *MatchService) ResolveCombatResult(ctx context.Context, roomID, winnerID string) (CombatOutcome, error) {
	var out CombatOutcome
	_, err := s.update(ctx, roomID, func(room *game.Room, m *game.MatchState, fx *sideEffects) (bool, error) {
		out = CombatOutcome{}
		if findPlayer(room, winnerID) == nil {
			return false, ErrPlayerNotFound
		}
		if len(room.Players) != MaxPlayers {
			return false, ErrNotEnoughPlayers
		}
		if m.GamePhase != game.PhaseSetup {
			return false, nil
		}

		loser := opponentOf(room, winnerID)
		lives := decrementLives(m, fx, loser)

		m.GamePhase = game.PhaseCombat
		m.PendingFinish = lives == 0
		m.LastWinner = winnerID
		m.RoundLog = nil
		m.RoundSeed = ""
		m.Acks = map[string]bool{}
		out = CombatOutcome{Processed: true, Finished: lives == 0, LoserLives: &lives}
		return true, nil
	})
	if err != nil {
		return CombatOutcome{}, err
	}
	if out.Processed {
		logging.Info("combat result recorded", logging.Fields{
			constants.LogFieldRoomID: roomID,
			constants.LogFieldWinner: winnerID,
		})
	}
	return out, nil
}

// decrementLives takes one life from loser, clamped at zero, and mirrors
// the new value into the match state. The roster value is authoritative.
func decrementLives(m *game.MatchState, fx *sideEffects, loser *game.Player) int {
	lives := loser.Lives - 1
	if lives < 0 {
		lives = 0
	}
	fx.setLives(loser.PlayerID, lives)
	st := m.PlayerStates[loser.PlayerID]
	st.Lives = lives
	m.PlayerStates[loser.PlayerID] = st
	return lives
}
